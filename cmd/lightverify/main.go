package main

import (
	"fmt"
	"os"

	"github.com/lightcmt/commitverify/cmd/lightverify/commands"
)

func main() {
	if err := commands.RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
