package main

import (
	"os"

	"github.com/abhisek/maturity/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
