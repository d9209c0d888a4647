package main

import "github.com/ist-ho/progdash/cmd"

func main() {
	cmd.Execute()
}
