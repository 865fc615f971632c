package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/jon4hz/taskman/cmd"
)

func main() {
	if err := fang.Execute(context.Background(), cmd.Command()); err != nil {
		os.Exit(1)
	}
}
