package main

import "profharvest/cmd/profharvest/cmd"

func main() {
	cmd.Execute()
}
