package main

import (
	"os"

	"github.com/hieudo2808/lms-project-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
