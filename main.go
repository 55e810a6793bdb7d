package main

import (
	"github.com/dogechain-lab/moveledger/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
