// Package main provides the iconsprite CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/iconsprite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
