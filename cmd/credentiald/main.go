package main

import (
	"context"
	"log"

	"github.com/goliatone/go-credentials"
)

func main() {
	cfg, err := credentials.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("run: %v", err)
	}
}
