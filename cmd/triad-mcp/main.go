package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/app"
	"github.com/peterkuimelis/triad/internal/config"
	triadmcp "github.com/peterkuimelis/triad/internal/mcp"
)

func main() {
	configPath := flag.String("config", "", "path to config YAML file")
	addr := flag.String("addr", "", "serve streamable HTTP on this address instead of stdio")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, addr string) error {
	a, err := app.New(ctx, app.Options{
		ConfigPath: configPath,
		Override: func(c *config.Config) {
			// stdout carries the protocol
			c.Log.Stderr = true
			if addr != "" {
				c.MCP.Addr = addr
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	s := server.NewMCPServer("triad", "1.0.0")
	triadmcp.RegisterTools(s, a.Service)

	if a.Config.MCP.Addr == "" {
		a.Logger.Info("serving MCP over stdio")
		return server.ServeStdio(s)
	}

	httpSrv := server.NewStreamableHTTPServer(s)
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("serving MCP over HTTP", zap.String("addr", a.Config.MCP.Addr))
		errCh <- httpSrv.Start(a.Config.MCP.Addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return httpSrv.Shutdown(context.Background())
	}
}
