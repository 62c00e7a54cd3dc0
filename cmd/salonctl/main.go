package main

import (
	"os"

	"github.com/MrJamesThe3rd/comanda/cmd/salonctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
