package main

import "github.com/duckhq/duck/cmd"

func main() {
	cmd.Execute()
}
