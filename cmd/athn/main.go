package main

import (
	"log/slog"
	"os"
)

func main() {
	app := newApp(os.Stdout, os.Stderr, nil)
	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
