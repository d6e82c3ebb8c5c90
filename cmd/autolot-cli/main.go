package main

import (
	"autolot-backend/cmd/autolot-cli/cmd"
)

func main() {
	cmd.Execute()
}
