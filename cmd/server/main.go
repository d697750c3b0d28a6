package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/config"
	"github.com/chemwatch/chemwatch/internal/domain"
	"github.com/chemwatch/chemwatch/internal/events"
	"github.com/chemwatch/chemwatch/internal/repo"
	"github.com/chemwatch/chemwatch/internal/server"
	"github.com/chemwatch/chemwatch/internal/service"
	"github.com/chemwatch/chemwatch/internal/telemetry"
	"github.com/chemwatch/chemwatch/internal/watcher"
	"github.com/chemwatch/chemwatch/pkg/db/postgres"
)

func init() {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		log.Fatal("Unable to get current file path")
	}

	dir := filepath.Dir(filename)
	envPath := filepath.Join(dir, ".env")

	if err := godotenv.Load(envPath); err != nil {
		log.Printf("No .env file found at %s", envPath)
	}
}

func buildStores(cfg *config.Config) (service.ItemStore, service.AlertStore, service.ScanStore, func(), error) {
	if cfg.StorageDriver == config.StorageDriver_Memory {
		logrus.Warn("using in-memory storage, state is lost on restart")
		return repo.NewMemoryItemStore(), repo.NewMemoryAlertStore(), repo.NewMemoryScanStore(), func() {}, nil
	}

	dbOpts := postgres.NewPostgresConfig("chemwatch")
	db, err := postgres.NewDBConn(dbOpts)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("unable to conn to db: %w", err)
	}
	return repo.NewItemRepo(db), repo.NewAlertRepo(db), repo.NewScanRepo(db), func() { db.Close() }, nil
}

func main() {
	cfg := config.NewConfig()

	items, alerts, scans, closeDB, err := buildStores(cfg)
	if err != nil {
		panic(err)
	}
	defer closeDB()

	inventoryService := service.NewInventoryService(items, scans)
	if cfg.KafkaBrokers != "" {
		producer, err := events.NewKafkaScanProducer(cfg.KafkaBrokers, cfg.KafkaScanTopic)
		if err != nil {
			logrus.Errorf("kafka disabled, unable to create producer: %v", err)
		} else {
			defer producer.Close()
			inventoryService.AddPublisher(producer)
		}
	}

	hub := server.NewHub()
	alertService := service.NewAlertService(alerts).AddNotifier(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := telemetry.NewClient(cfg.TelemetryBaseURL, cfg.TelemetryChannel, cfg.TelemetryAPIKey)
	w := watcher.NewWatcher(reader, alertService, domain.DefaultRules(), cfg.PollInterval)
	go w.Run(ctx)

	s := server.NewServer(cfg.HTTPAddr, inventoryService, alertService, hub)
	if err := s.Run(ctx); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
