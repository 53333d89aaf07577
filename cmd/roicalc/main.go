package main

import (
	"os"
)

func main() {
	command := NewRoicalcCommand(os.Stdout)
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
