package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/peterkuimelis/triad/internal/app"
	"github.com/peterkuimelis/triad/internal/config"
	triadnet "github.com/peterkuimelis/triad/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  triad host [--config FILE] [--port P] [--hands FILE] [--level N]")
	fmt.Println("  triad join [--addr ADDR] [--player ID] [--hand N] [--level N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Serve matches against the AI over TCP")
	fmt.Println("  join    Connect to a server and play in the terminal")
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config YAML file")
	port := fs.Int("port", 0, "TCP port to listen on (overrides config)")
	handsFile := fs.String("hands", "", "path to hands file (overrides config)")
	level := fs.Int("level", 0, "default difficulty 1-10 (overrides config)")
	fs.Parse(args)

	a, err := app.New(ctx, app.Options{
		ConfigPath: *configPath,
		Override: func(c *config.Config) {
			if *port != 0 {
				c.TCP.Port = *port
			}
			if *handsFile != "" {
				c.Game.HandsFile = *handsFile
			}
			if *level != 0 {
				c.Game.DefaultLevel = *level
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &triadnet.Server{
		Service:   a.Service,
		HandsFile: a.Config.Game.HandsFile,
		Port:      strconv.Itoa(a.Config.TCP.Port),
		Logger:    a.Logger,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	player := fs.String("player", "", "player id for stats")
	hand := fs.Int("hand", 0, "preset hand number from the server's hands file (0 = random)")
	level := fs.Int("level", 0, "difficulty 1-10 (0 = server default)")
	fs.Parse(args)

	return triadnet.Connect(ctx, *addr, triadnet.JoinOptions{
		PlayerID:   *player,
		HandNumber: *hand,
		Level:      *level,
	})
}
