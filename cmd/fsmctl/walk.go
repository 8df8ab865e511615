package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/gamekit/pkg/logger"
	"github.com/dmitrymomot/gamekit/pkg/metrics"
	"github.com/dmitrymomot/gamekit/pkg/redis"
	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

type walkOptions struct {
	file      string
	from      string
	key       string
	store     string
	resume    bool
	publish   bool
	metrics   bool
	keepGoing bool
	targets   []string
}

func parseWalk(args []string, stderr io.Writer) (walkOptions, error) {
	var o walkOptions
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.file, "f", "", "definition file (yaml or json)")
	fs.StringVar(&o.from, "from", "", "start state, defaults to the definition's initial state")
	fs.StringVar(&o.key, "key", "fsmctl", "key the machine state is stored under")
	fs.StringVar(&o.store, "store", "", "state store driver: memory, file, redis, postgres or mongo (default from STATESTORE_DRIVER)")
	fs.BoolVar(&o.resume, "resume", false, "start from the stored state when there is one")
	fs.BoolVar(&o.publish, "publish", false, "publish transitions to Redis (REDIS_URL)")
	fs.BoolVar(&o.metrics, "metrics", false, "print Prometheus metrics after the walk")
	fs.BoolVar(&o.keepGoing, "k", false, "keep going after an invalid transition")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.targets = fs.Args()
	if len(o.targets) == 0 {
		return o, errors.New("walk needs at least one target state")
	}
	return o, nil
}

// runWalk replays targets against the definition. Transitions are printed by a
// Feed consumer; the walker, the optional Redis publisher and the printer run
// in one errgroup.
func runWalk(ctx context.Context, cfg Config, log *slog.Logger, args []string, stdout, stderr io.Writer) error {
	o, err := parseWalk(args, stderr)
	if err != nil {
		return err
	}

	def, g, err := loadGraph(o.file)
	if err != nil {
		return err
	}
	reg := g.Registry()

	if _, err := statemachine.LogTransitions(reg, "fsmctl", log); err != nil {
		return err
	}

	collector := metrics.New("fsmctl")
	promReg := prometheus.NewRegistry()
	if err := collector.Register(promReg); err != nil {
		return err
	}
	if _, err := metrics.Attach(collector, reg, def.Name); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, o.store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	start := def.Initial
	if o.from != "" {
		start = o.from
	}
	m, err := statemachine.NewMachine(g, start,
		statemachine.WithStore(store, o.key),
		statemachine.WithMachineLogger[string](log),
	)
	if err != nil {
		return err
	}
	if o.resume {
		if _, err := m.Restore(ctx); err != nil {
			return err
		}
	}

	feed, err := statemachine.NewFeed(reg, len(o.targets))
	if err != nil {
		return err
	}
	events := feed.Subscribe(ctx)

	var pub *redis.Publisher[string]
	if o.publish {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		pub, err = redis.NewPublisher(client, reg, cfg.Redis.Channel,
			redis.WithQueueSize(cfg.Redis.QueueSize),
			redis.WithPublisherLogger(log),
		)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "start: %s\n", m.Current())

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for ev := range events {
			fmt.Fprintf(stdout, "%s -> %s\n", ev.From, ev.To)
		}
		return nil
	})

	if pub != nil {
		eg.Go(func() error { return pub.Run(egCtx) })
	}

	var walkErr error
	eg.Go(func() error {
		// the feed and publisher subscribe on this registry, so they are
		// closed on the goroutine that dispatches
		defer func() {
			_ = feed.Close()
			if pub != nil {
				_ = pub.Close()
			}
		}()

		for _, target := range o.targets {
			if err := egCtx.Err(); err != nil {
				return err
			}
			_, err := m.Transition(egCtx, target)
			if err == nil {
				continue
			}
			collector.ObserveError(def.Name, err)
			if !statemachine.IsInvalidTransitionError(err) || !o.keepGoing {
				return err
			}
			walkErr = errors.Join(walkErr, err)
			log.WarnContext(egCtx, "skipping invalid transition", logger.Error(err))
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "final: %s\n", m.Current())

	if o.metrics {
		if err := writeMetrics(stdout, promReg); err != nil {
			return err
		}
	}
	return walkErr
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
