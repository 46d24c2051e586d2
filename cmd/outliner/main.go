package main

import "github.com/rehierl/html-outliner/internal/cli"

func main() {
	cli.Execute()
}
