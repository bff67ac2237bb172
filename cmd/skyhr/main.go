package main

import "github.com/skyhr/skyhr/internal/cli"

func main() {
	cli.Execute()
}
