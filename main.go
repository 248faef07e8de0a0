package main

import "github.com/iksnae/doomlearn/cmd"

func main() {
	cmd.Execute()
}
