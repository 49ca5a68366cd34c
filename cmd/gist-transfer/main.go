package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}
	if err := a.command().Run(context.Background(), os.Args); err != nil {
		cli.HandleExitCoder(err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
