package main

import (
	"os"

	"github.com/GriffinAtlas/clawtriage/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
