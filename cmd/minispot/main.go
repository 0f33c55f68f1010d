package main

import "github.com/tessro/minispot/internal/cli"

func main() {
	cli.Execute()
}
