package main

import (
	"os"

	"github.com/arthur-debert/homesick/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
