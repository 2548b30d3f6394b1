package main

import (
	"github.com/mcoot/pointsync/internal/cli"
)

func main() {
	cli.Execute()
}
