package main

import "github.com/gaurav-prasanna/wikipipe/cmd"

func main() {
	cmd.Execute()
}
