package main

import "github.com/mcoot/mindmaze/internal/cli"

func main() {
	cli.Execute()
}
