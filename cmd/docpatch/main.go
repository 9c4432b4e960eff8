package main

import (
	"os"

	"github.com/ariel-frischer/docpatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
