package main

import (
	"os"

	"github.com/kotoba-lab/questcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
