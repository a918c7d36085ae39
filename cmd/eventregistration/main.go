package main

import "eventregistration/cmd/eventregistration/cmd"

func main() {
	cmd.Execute()
}
