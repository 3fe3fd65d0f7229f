package main

import (
	"os"

	"github.com/tbochard/freightyard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
