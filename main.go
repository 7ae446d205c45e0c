package main

import "tarot-agent/app/cmd"

func main() {
	cmd.Execute()
}
