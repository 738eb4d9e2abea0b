package main

import "github.com/gaurav-prasanna/lawpipe/cmd"

func main() {
	cmd.Execute()
}
