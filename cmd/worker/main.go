package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aviaapp/config"
	"github.com/Domenick1991/aviaapp/internal/email"
	"github.com/Domenick1991/aviaapp/internal/kafka"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/repository"
	"github.com/Domenick1991/aviaapp/internal/service/cabins"
	"github.com/Domenick1991/aviaapp/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := log.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		cabins.NewCabinClassService(repository.NewCabinClassRepository(pool), nil),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			if err := emailSender.Handle(ctx, msg.Value); err != nil {
				log.Error(ctx, "notification failed",
					slog.String("key", string(msg.Key)),
					slog.Int64("offset", msg.Offset),
					log.Err(err),
				)
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Error(ctx, "consumer stopped", log.Err(err))
			stop()
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.OutdatedSweepMinutes) * time.Minute)
	defer sweep.Stop()
	log.Info(ctx, "worker started",
		slog.String("topic", cfg.Kafka.NotificationsTopic),
		slog.Int("sweep_minutes", cfg.Worker.OutdatedSweepMinutes),
	)

	for {
		select {
		case <-sweep.C:
			if _, err := flightService.DeleteOutdated(ctx); err != nil {
				log.Error(ctx, "delete outdated flights", log.Err(err))
			}
		case <-ctx.Done():
			log.Info(context.Background(), "worker shutting down")
			return nil
		}
	}
}
