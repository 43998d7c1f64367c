package main

import "github.com/deploymenttheory/go-clearkey/cmd"

func main() {
	cmd.Execute()
}
