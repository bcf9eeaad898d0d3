package main

import (
	"context"
	"os"

	"followexport/cli"
)

func main() {
	os.Exit(cli.NewApp().Execute(context.Background(), os.Args[1:]))
}
