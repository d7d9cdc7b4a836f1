package main

import (
	"os"

	"github.com/existflow/projecttasks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
