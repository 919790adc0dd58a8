package main

import "github.com/kozaktomas/cardsheet/cmd"

func main() {
	cmd.Execute()
}
