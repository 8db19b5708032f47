package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/eed-project/eedx/app/api"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := api.Initialize(ctx)

	if err := api.NewServer(app); err != nil {
		panic(err)
	}

	app.Start(ctx)
}
