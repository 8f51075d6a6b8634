package main

import (
	"os"

	"github.com/Raptacon/Robot-2020/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
