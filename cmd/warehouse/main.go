package main

import (
	"os"

	"warehouse/cmd/warehouse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
