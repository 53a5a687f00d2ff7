package main

import (
	"os"

	"github.com/glabrego/esa-reader/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
