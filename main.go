package main

import "github.com/nstehr/tackle/cmd"

func main() {
	cmd.Execute()
}
