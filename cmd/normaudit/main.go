// Package main provides the normaudit CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/normaudit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
