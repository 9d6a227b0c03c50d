package main

import "github.com/gaurav-prasanna/pagequery/cmd"

func main() {
	cmd.Execute()
}
