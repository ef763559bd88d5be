package main

import (
	"os"

	"github.com/go-strand/strand/cmd/strand/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
