package main

import "stockgood/internal/cli"

func main() {
	cli.Execute()
}
