package main

import (
	"context"
	"fmt"
	"os"

	"smartchat/cli"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	cli.Version = Version
	cli.License = License

	if err := cli.New().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
