package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/app"
	"github.com/peterkuimelis/triad/internal/config"
	"github.com/peterkuimelis/triad/internal/service"
	"github.com/peterkuimelis/triad/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config YAML file")
	addr := flag.String("addr", "", "HTTP address to listen on (overrides config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, addr string) error {
	var hub *web.Hub
	a, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		Override: func(c *config.Config) {
			if addr != "" {
				c.HTTP.Addr = addr
			}
		},
		Notifier: func(logger *zap.Logger) service.Notifier {
			hub = web.NewHub(logger)
			return hub
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := web.NewServer(a.Service, hub, a.Logger, a.Config.HTTP.MinClientVersion)
	return srv.ListenAndServe(ctx, a.Config.HTTP.Addr)
}
