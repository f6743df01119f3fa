package main

import (
	"catan/config"
	"catan/experiments"
	"catan/experiments/metrics"
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

func main() {
	path := flag.String("config", "configs/ab_vs_f.yaml", "Experiment file")
	verbose := flag.Bool("v", false, "Log every move and search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *path); err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
}

func run(ctx context.Context, path string) error {
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	exp, err := c.Experiment()
	if err != nil {
		return err
	}

	result, err := experiments.Run(ctx, exp)
	if err != nil {
		return err
	}

	dir := c.Output.Dir
	if dir == "" {
		dir = "results"
	}
	writer, err := metrics.NewWriter(dir, c.Name)
	if err != nil {
		return err
	}
	var store *metrics.Store
	if c.Output.DB != "" {
		store, err = metrics.OpenStore(c.Output.DB)
		if err != nil {
			return err
		}
		defer store.Close()
	}
	if err := result.Save(ctx, c.Name, writer, store); err != nil {
		return err
	}
	log.Info().Msgf("results written to %s", writer.Dir())

	report("this run", result.Tallies)
	for label, rate := range experiments.Throughput(result) {
		log.Info().Msgf("%s searched %.0f nodes or episodes per second", label, rate)
	}
	if store != nil {
		tallies, err := store.Tallies(ctx, c.Name)
		if err != nil {
			return err
		}
		report("all stored runs", tallies)
	}
	return nil
}

func report(scope string, tallies map[string]metrics.Tally) {
	labels := make([]string, 0, len(tallies))
	for label := range tallies {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	for _, label := range labels {
		t := tallies[label]
		log.Info().Msgf("%s, %s: %s %d-%d with %d unfinished", scope, label, experiments.Verdict(t), t.Wins[0], t.Wins[1], t.NoWinner)
	}
}
