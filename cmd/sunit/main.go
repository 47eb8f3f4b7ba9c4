package main

import (
	_ "sunit/examples"
	"sunit/pkg/runner"
	"sunit/pkg/sunit"
)

var version = "dev"

func main() {
	runner.Version = version
	runner.Main(sunit.Default)
}
