package main

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ServiceConfig struct {
	Environment string `env:"SENTRY_ENVIRONMENT" env-default:"development"`
	Port        int    `env:"PORT" env-default:"8080"`

	SentryDSN string `env:"SENTRY_DSN"`

	// "gcs" stores profiles in a bucket, "badger" in an embedded database.
	StorageProvider string `env:"STORAGE_PROVIDER" env-default:"badger"`
	ProfilesBucket  string `env:"PROFILES_BUCKET" env-default:"perfcore-profiles"`
	BadgerPath      string `env:"BADGER_PATH" env-default:"/var/lib/perfcore"`

	CallTreesKafkaBrokers []string `env:"CALL_TREES_KAFKA_BROKERS" env-default:"localhost:9092"`
	CallTreesKafkaTopic   string   `env:"CALL_TREES_KAFKA_TOPIC" env-default:"profiles-call-tree"`

	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" env-default:"30s"`
	FetchRetryCount int           `env:"FETCH_RETRY_COUNT" env-default:"2"`
	FetchMaxSizeMB  int64         `env:"FETCH_MAX_SIZE_MB" env-default:"128"`
}

func loadConfig() (ServiceConfig, error) {
	var config ServiceConfig
	err := cleanenv.ReadEnv(&config)
	return config, err
}
