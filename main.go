package main

import "github.com/harrisonrobin/harvestboard/pkg/cli"

func main() {
	cli.Execute()
}
