package main

import (
	"fmt"
	"os"

	"github.com/min1324/lockfree/cmd/lfstress/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
