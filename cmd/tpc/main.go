package main

import (
	"os"

	"github.com/tpascal/go-tpc/cmd/tpc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
