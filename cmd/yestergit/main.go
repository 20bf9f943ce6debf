package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/ishaan812/yestergit/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		color.New(color.FgHiRed).Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
