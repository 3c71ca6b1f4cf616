// Command playercard fetches random All-Stars from a running swish-service
// and prints each card.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/preston-bernstein/swish-service/internal/card"
	"github.com/preston-bernstein/swish-service/internal/logging"
)

type options struct {
	count   int
	baseURL string
	timeout time.Duration
}

func main() {
	var opts options
	flag.IntVar(&opts.count, "n", 1, "number of cards to fetch")
	flag.StringVar(&opts.baseURL, "url", envOr("CARD_API_BASE_URL", "http://localhost:4000"), "swish-service base URL")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-fetch timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "playercard:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.count < 1 {
		return errors.New("-n must be at least 1")
	}
	logger := logging.NewLogger(logging.Config{Level: "warn", Service: "playercard", Output: os.Stderr})
	client := card.NewClient(opts.baseURL, nil, opts.timeout)
	ctrl := card.NewController(client, card.Options{Logger: logger, FetchTimeout: opts.timeout})
	defer ctrl.Close()

	var failed int
	for i := 0; i < opts.count; i++ {
		state, err := ctrl.Fetch(ctx)
		if err != nil {
			failed++
		}
		if err := card.WriteText(out, card.Render(state)); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed == opts.count {
		return fmt.Errorf("all %d fetches failed", failed)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
