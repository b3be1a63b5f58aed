package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pandora/internal/platform/config"
	"pandora/internal/platform/database"
	"pandora/internal/platform/kafka"
	"pandora/internal/platform/kafka/consumer"
	"pandora/internal/platform/logger"
	"pandora/pkg/platform/audit"
)

// sinkHandler persists consumed audit events. Returning an error skips the
// offset commit, so the message is redelivered; Append is idempotent on the
// event ID, which makes the redelivery harmless.
type sinkHandler struct {
	store  audit.Store
	logger *slog.Logger
}

func (h *sinkHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// A malformed event will never parse on redelivery either; log it
		// and commit past it.
		h.logger.ErrorContext(ctx, "discarding malformed audit event",
			"error", err,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
		return nil
	}
	if err := h.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// main runs the audit sink: it drains the Kafka audit stream into the
// durable PostgreSQL trail.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.DatabaseURL == "" {
		log.Error("PANDORA_DATABASE_URL is required")
		os.Exit(1)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Error("PANDORA_KAFKA_BROKERS is required")
		os.Exit(1)
	}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck // process exit

	consumerCfg := kafka.DefaultConsumerConfig()
	consumerCfg.Brokers = strings.Join(cfg.KafkaBrokers, ",")

	handler := &sinkHandler{store: audit.NewPostgres(pool.DB()), logger: log}
	c, err := consumer.New(consumerCfg, handler, log)
	if err != nil {
		log.Error("kafka consumer init failed", "error", err)
		os.Exit(1)
	}

	log.Info("starting audit sink",
		"brokers", consumerCfg.Brokers,
		"topic", consumerCfg.Topic,
		"group", consumerCfg.GroupID,
	)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down audit sink")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		log.Error("consumer stop failed", "error", err)
		os.Exit(1)
	}
	log.Info("audit sink stopped")
}
