// Command activity tails the wall activity feed published by the server
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wall-service/internal/config"
	"wall-service/internal/logger"
	"wall-service/internal/services"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Setup(os.Stderr, cfg.Log, "wall-activity")

	flags := pflag.NewFlagSet("activity", pflag.ExitOnError)
	group := flags.String("group", "", "consumer group; empty reads the topic without committing offsets")
	fromStart := flags.Bool("from-beginning", false, "start from the oldest retained activity")
	flags.Parse(os.Args[1:])

	if !cfg.Kafka.Enabled() {
		slog.Error("KAFKA_BROKERS is not set")
		os.Exit(1)
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		GroupID:  *group,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	}
	if *fromStart {
		readerCfg.StartOffset = kafka.FirstOffset
	} else {
		readerCfg.StartOffset = kafka.LastOffset
	}
	reader := kafka.NewReader(readerCfg)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Tailing activity feed", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic, "group", *group)
	if err := tail(ctx, reader, os.Stdout); err != nil {
		slog.Error("Activity feed stopped", "error", err)
		os.Exit(1)
	}
}

// tail prints one line per activity until ctx ends
func tail(ctx context.Context, r messageReader, out io.Writer) error {
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read activity: %w", err)
		}

		var a services.Activity
		if err := json.Unmarshal(msg.Value, &a); err != nil {
			slog.Warn("Skipping malformed activity", "offset", msg.Offset, "partition", msg.Partition, "error", err)
			continue
		}
		fmt.Fprintln(out, formatActivity(a))
	}
}

func formatActivity(a services.Activity) string {
	line := fmt.Sprintf("%s user=%d %s", a.At.UTC().Format(time.RFC3339), a.UserID, a.Type)
	if a.MessageID != "" {
		line += " message=" + a.MessageID
	}
	if a.Text != "" {
		line += fmt.Sprintf(" text=%q", a.Text)
	}
	return line
}
