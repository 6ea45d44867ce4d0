// Command gopay reads resources from the payments API from the command line.
//
// Configuration comes from flags, GOPAY_* environment variables, a .env file
// in the working directory and an optional gopay.yaml config file, in that
// order of precedence.
package main

import (
	"fmt"
	"os"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
