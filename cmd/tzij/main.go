package main

import (
	"github.com/tzij-labs/tzij-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
