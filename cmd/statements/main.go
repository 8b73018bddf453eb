package main

import (
	"os"

	"github.com/statements-dev/statements/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
