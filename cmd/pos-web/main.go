package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/pos-station/internal/cart"
	"github.com/tuanvumaihuynh/pos-station/internal/config"
	"github.com/tuanvumaihuynh/pos-station/internal/event"
	"github.com/tuanvumaihuynh/pos-station/internal/http"
	"github.com/tuanvumaihuynh/pos-station/internal/log"
	"github.com/tuanvumaihuynh/pos-station/internal/repository"
	"github.com/tuanvumaihuynh/pos-station/internal/service"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/db"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/mq"
	"github.com/tuanvumaihuynh/pos-station/internal/telemetry"
	"github.com/tuanvumaihuynh/pos-station/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running pos web application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	var producer mq.Producer = mq.NoopProducer{}
	if cfg.Kafka.Enabled() {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		logger.WarnContext(ctx, "kafka addresses not set, cart events are discarded")
	}

	productRepository := repository.NewProductRepository(dbClient)
	publisher := event.NewPublisher(logger, producer, cfg.Kafka.TopicCartItemAdded)
	stationService := service.NewStationService(logger, productRepository, cart.NewStore(), publisher)

	svc, err := http.New(cfg.HTTP, logger, stationService, dbClient)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
