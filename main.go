package main

import "github.com/kozaktomas/kaleidoid/cmd"

func main() {
	cmd.Execute()
}
