package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// SubscriberConfig describes a durable pull consumer and its worker pool.
type SubscriberConfig struct {
	Stream        string
	Consumer      string
	Subject       string
	Workers       int
	FetchTimeout  time.Duration
	RetryInterval time.Duration
}

// MessageHandler processes one message and is responsible for acking or naking it.
type MessageHandler func(ctx context.Context, msg jetstream.Msg)

// Subscribe creates or updates the durable consumer and runs cfg.Workers workers
// passing fetched messages to handle. It blocks until ctx is cancelled.
func Subscribe(ctx context.Context, js jetstream.JetStream, cfg SubscriberConfig, handle MessageHandler, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		FilterSubject: cfg.Subject,
		Durable:       cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", cfg.Consumer, err)
	}
	logger.Info("NATS consumer started", "consumer", cfg.Consumer, "subject", cfg.Subject, "workers", cfg.Workers)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg, handle, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches one message at a time until ctx is done.
func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg SubscriberConfig, handle MessageHandler, logger *slog.Logger) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(cfg.FetchTimeout))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			if errors.Is(err, nats.ErrConnectionClosed) {
				return fmt.Errorf("consumer %s: %w", cfg.Consumer, err)
			}
			logger.Error("failed to fetch messages", "consumer", cfg.Consumer, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
			continue
		}
		for msg := range batch.Messages() {
			handle(ctx, msg)
		}
		if err := batch.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
			logger.Warn("fetch ended with error", "consumer", cfg.Consumer, "error", err)
		}
	}
}
