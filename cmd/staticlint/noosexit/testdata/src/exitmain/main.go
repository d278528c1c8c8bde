package main

import (
	"os"
	sys "os"
)

type server struct{}

func (server) Exit(int) {}

func main() {
	defer cleanup()

	var s server
	s.Exit(1)

	os.Exit(1)  // want "avoid using os.Exit in main.main"
	sys.Exit(2) // want "avoid using os.Exit in main.main"
}

func cleanup() {
	os.Exit(0)
}
