// Command relayd runs the reference WebSocket relay host: one process,
// one router goroutine, one HTTP listener serving room-scoped WebSocket
// upgrades for every room, and a read-only admin stats listener.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bonsairobo/baton/internal/config"
	"github.com/bonsairobo/baton/internal/host"
	"github.com/bonsairobo/baton/internal/relay"
	"github.com/bonsairobo/baton/internal/relaylog"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("parsing configuration: %v", err)
	}

	logger := relaylog.New()
	router := relay.NewRouter(256, logger)
	go router.Run()

	srv := host.New(router, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("relayd starting", relaylog.Fields{
		"relay_addr": cfg.RelayAddr,
		"admin_addr": cfg.AdminAddr,
	})
	if err := srv.Run(ctx); err != nil {
		logger.Error("relayd exited with error", relaylog.Fields{"error": err})
		os.Exit(1)
	}
}
