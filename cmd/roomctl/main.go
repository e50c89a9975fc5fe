package main

import "github.com/mcoot/gameroom/internal/cli"

func main() {
	cli.Execute()
}
