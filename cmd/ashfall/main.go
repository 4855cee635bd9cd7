package main

import "github.com/osse101/ashfall/internal/cli"

func main() {
	cli.Execute()
}
