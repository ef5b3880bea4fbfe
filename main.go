package main

import "deskrag/cmd"

func main() {
	cmd.Execute()
}
