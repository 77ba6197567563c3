package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/itaymdigi/Family-Navigator/internal/tripchat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := tripchat.Cli(ctx, os.Args[1:], tripchat.NewCliConfig()); err != nil && ctx.Err() == nil {
		log.Fatal("tripchat", "err", err)
	}
}
