package main

import "github.com/cardwallet/evm-core/cmd"

func main() {
	cmd.Execute()
}
