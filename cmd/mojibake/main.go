package main

import (
	"fmt"
	"os"

	"github.com/thrawn01/mojibake"
)

func main() {
	if err := mojibake.RunCmd(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
