package main

import (
	"context"
	"os"

	"github.com/agbru/renewcalc/internal/app"
)

func main() {
	application := app.New(os.Args, os.Stderr)
	os.Exit(application.Run(context.Background(), os.Stdout))
}
