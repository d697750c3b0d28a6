package config

import (
	"os"
	"strconv"
	"time"
)

const (
	StorageDriver_Postgres = "postgres"
	StorageDriver_Memory   = "memory"
)

type Config struct {
	HTTPAddr      string
	StorageDriver string

	TelemetryBaseURL string
	TelemetryChannel string
	TelemetryAPIKey  string
	PollInterval     time.Duration

	KafkaBrokers   string
	KafkaScanTopic string
}

func NewConfig() *Config {
	return &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":3000"),
		StorageDriver: getEnv("STORAGE_DRIVER", StorageDriver_Postgres),

		TelemetryBaseURL: getEnv("THINGSPEAK_BASE_URL", ""),
		TelemetryChannel: getEnv("THINGSPEAK_CHANNEL", "2909250"),
		TelemetryAPIKey:  getEnv("THINGSPEAK_API_KEY", ""),
		PollInterval:     getEnvDuration("POLL_INTERVAL", 7*time.Second),

		KafkaBrokers:   getEnv("KAFKA_BROKERS", ""),
		KafkaScanTopic: getEnv("KAFKA_SCAN_TOPIC", "scan_events"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}
