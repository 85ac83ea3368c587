package main

import "github.com/moffa90/go-ryflash/cmd"

func main() {
	cmd.Execute()
}
