package main

import "github.com/netopt-project/netopt-release/cmd/netopt-release/cmd"

func main() {
	cmd.Execute()
}
