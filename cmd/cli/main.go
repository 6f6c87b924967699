package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mediavault/internal/client/cli"
	"github.com/dmitrijs2005/mediavault/internal/client/config"
	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/logging"
	"github.com/dmitrijs2005/mediavault/internal/netx"
)

func main() {

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The first signal cancels in-flight requests, a second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	m := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := netx.Serve(ctx, cfg.MetricsAddr, m.Handler()); err != nil {
				logger.Error(ctx, "metrics endpoint stopped", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	app, err := cli.NewApp(ctx, cfg, logger, m)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
