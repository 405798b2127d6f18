package main

import (
	"innervoice/app/cli"
	"os"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
