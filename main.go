package main

import (
	"os"

	"github.com/campuspark/parkd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
