package main

import (
	"context"
	"log"

	"passvault/internal/vault/cli"
	"passvault/internal/vault/config"
)

func main() {

	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
