package main

import (
	"context"
	"log"

	"github.com/dkarpov/reelmark/internal/client/cli"
	"github.com/dkarpov/reelmark/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
