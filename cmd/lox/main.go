// Command lox is the Lox interpreter CLI (SPEC_FULL §10.3).
package main

import (
	"os"

	"github.com/loxlang/lox/cmd/lox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
