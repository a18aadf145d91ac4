package main

import (
	"os"

	"github.com/jask/trackmysleep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
