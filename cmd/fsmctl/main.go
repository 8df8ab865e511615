// Command fsmctl validates, renders and replays transition graph definitions.
//
//	fsmctl validate -f match.yaml
//	fsmctl export -f match.yaml -format mermaid -current playing
//	fsmctl walk -f match.yaml -metrics countdown playing results
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/gamekit/pkg/config"
	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/mongo"
	"github.com/dmitrymomot/gamekit/pkg/pg"
	"github.com/dmitrymomot/gamekit/pkg/redis"
	"github.com/dmitrymomot/gamekit/pkg/statestore"
)

// Config is read from the environment and an optional .env file.
type Config struct {
	Log      logger.Config
	Store    statestore.Config
	Redis    redis.Config
	Postgres pg.Config
	Mongo    mongo.Config
}

var errUsage = errors.New("usage: fsmctl <validate|export|walk> -f FILE [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "fsmctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var cfg Config
	if err := config.Load(&cfg, config.WithoutCache()); err != nil {
		return err
	}
	log := logger.New(logger.FromConfig(cfg.Log), logger.WithOutput(stderr))

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "validate":
		return runValidate(rest, stdout, stderr)
	case "export":
		return runExport(rest, stdout, stderr)
	case "walk":
		return runWalk(ctx, cfg, log, rest, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, errUsage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
