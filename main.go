package main

import (
	"fmt"
	"os"

	"github.com/Jiang1756/Rustdesk-builde/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the rustdesk-builder command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
