package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shandysiswandi/twofa/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := app.New(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
