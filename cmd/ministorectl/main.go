package main

import "ministore/cli"

func main() {
	cli.Execute()
}
