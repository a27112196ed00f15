package main

import "github.com/stakestar/nodechecker/cli"

var (
	AppName = "Node Checker"
	Version = "latest"
)

func main() {
	cli.Execute(AppName, Version)
}
