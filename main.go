/*
Planar replays a recorded tracking session, outlines every detected
horizontal plane and places the configured model wherever a tap lands on one.
*/
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/planar/demo"
	"github.com/spaghettifunk/planar/engine"
	"github.com/spaghettifunk/planar/engine/core"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the application configuration")
	flag.Parse()

	config, err := engine.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("could not load configuration: %s", err)
	}

	app := demo.NewPlacementDemo(config)
	e, err := engine.New(app.Game)
	if err != nil {
		core.LogFatal("could not create engine: %s", err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("could not initialize engine: %s", err)
	}

	// capture sigterm and other system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	if runErr != nil {
		core.LogFatal("engine stopped: %s", runErr)
	}
}
