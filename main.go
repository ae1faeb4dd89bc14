package main

import "github.com/example/engtrainer/internal/cli"

func main() {
	cli.Execute()
}
