package main

import (
	"os"

	"github.com/kvasek/betterschedule/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
