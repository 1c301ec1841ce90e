package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/diamond/internal/adapters/repository"
	"github.com/okian/diamond/internal/config"
	"github.com/okian/diamond/internal/seed"
	"github.com/okian/diamond/pkg/logger"
)

// Default configuration constants.
const (
	defaultAthletes   = 60
	defaultTopN       = 25
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:5000", "Base URL of the service")
		athletes = flag.Int("athletes", defaultAthletes, "Number of athletes to generate")
		topN     = flag.Int("top", defaultTopN, "Number of leaderboard entries to verify")
		seedVal  = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generator seed")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output   = flag.String("output", "", "Write the generated season as JSON to this file")
		verbose  = flag.Bool("verbose", false, "Log every leaderboard entry")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	if err := run(ctx, &seed.Config{
		BaseURL:    *baseURL,
		Athletes:   *athletes,
		TopN:       *topN,
		Timeout:    *timeout,
		Seed:       *seedVal,
		OutputFile: *output,
		Verbose:    *verbose,
	}); err != nil {
		_, _ = os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, sc *seed.Config) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.StoreDriver == "memory" {
		return errMemoryDriver
	}

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN,
		repository.WithConnectRetry(cfg.ConnectRetries, cfg.ConnectRetryDelay()),
		repository.WithLogger(logger.Named("repository")),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = seed.Run(ctx, sc, store)
	return err
}
