package main

import (
	"context"
	"log"
	"os"

	"keepsafe/internal/buildinfo"
	"keepsafe/internal/client/cli"
	"keepsafe/internal/client/config"
	"keepsafe/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, logging.NewDefault())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
