package main

import (
	"os"

	"github.com/nysa42/c2raytools/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
