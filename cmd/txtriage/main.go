package main

import "github.com/minhnx/txtriage/internal/cli"

func main() {
	cli.Execute()
}
