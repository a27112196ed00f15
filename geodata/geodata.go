package geodata

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"
)

type GeoData struct {
	Country struct {
		IsoCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
}

// Label is a short human readable location, e.g. "Frankfurt am Main, DE".
func (g *GeoData) Label() string {
	var parts []string
	if city := g.City.Names["en"]; city != "" {
		parts = append(parts, city)
	}
	if g.Country.IsoCode != "" {
		parts = append(parts, g.Country.IsoCode)
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ", ")
}

type GeoIP2DB struct {
	db *maxminddb.Reader
}

func NewGeoIP2DB(databaseFilePath string) (*GeoIP2DB, error) {
	db, err := maxminddb.Open(databaseFilePath)
	if err != nil {
		return nil, err
	}
	return &GeoIP2DB{db}, nil
}

func (g *GeoIP2DB) Close() error {
	return g.db.Close()
}

// Locate resolves the location of a roster address. Addresses may carry a port.
func (g *GeoIP2DB) Locate(address string) (string, error) {
	geoData, err := g.GetGeoDataFromIPAddress(HostOf(address))
	if err != nil {
		return "", err
	}
	return geoData.Label(), nil
}

func (g *GeoIP2DB) GetGeoDataFromIPAddress(ipAddress string) (*GeoData, error) {
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", ipAddress)
	}

	var geoData GeoData
	err := g.db.Lookup(ip, &geoData)
	if err != nil {
		return nil, err
	}

	return &geoData, nil
}

// HostOf strips an optional port from a roster address.
func HostOf(address string) string {
	if host, _, err := net.SplitHostPort(address); err == nil {
		return host
	}
	return address
}
