package main

import "github.com/beantunes235/fantasyforge/internal/cli"

func main() {
	cli.Execute()
}
