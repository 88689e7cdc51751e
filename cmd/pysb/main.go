package main

import (
	"os"

	"github.com/cwbudde/go-pysb/cmd/pysb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
