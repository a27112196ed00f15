package utils

import "strings"

// NormalizeAddress returns the form of a token address nodes expect in the auth header.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// NodeLabel formats an address/host pair the way report lines print it.
func NodeLabel(address, host string) string {
	return address + " / " + host
}
