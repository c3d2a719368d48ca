package main

import (
	"os"

	"github.com/compozy/scriptctx/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
