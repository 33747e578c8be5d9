// Package config loads the core's runtime configuration from the
// environment, following a "load .env, warn if absent, fail fast on
// required-but-missing" pattern.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config recognizes the core's storage and auth options, plus the
// domain-stack additions this repo wires in on top (simulation queue,
// listen address, turn clock derivation).
type Config struct {
	TableName             string
	PartitionKeyAttribute string
	SortKeyAttribute      string
	Region                string

	// DynamoDBEndpoint overrides the default DynamoDB endpoint, for
	// local/dockerized DynamoDB.
	DynamoDBEndpoint string

	// SimulationQueueURL is the SQS queue the Driver's production
	// wiring enqueues a simulation task onto after every Matched or
	// FakeSimulate outcome. Optional: when empty, the enqueue step is
	// skipped and only logged (useful for local development without a
	// real queue).
	SimulationQueueURL string

	// ServiceToken gates the operational HTTP surface behind a bearer
	// token check.
	ServiceToken string

	// ListenAddr is the address the operational HTTP surface binds to.
	ListenAddr string

	// TurnEpochUnix and TurnDurationSeconds let the janitor worker
	// derive "the current turn" from wall-clock time, since the core
	// itself has no notion of a game clock (that lives upstream).
	// Optional: the janitor is skipped when TurnDurationSeconds is zero.
	TurnEpochUnix       int64
	TurnDurationSeconds int64
}

// Load reads configuration from the environment, loading a .env file
// first if one is present (logging a warning and continuing if not).
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := Config{
		TableName:             os.Getenv("MATCHMAKING_TABLE_NAME"),
		PartitionKeyAttribute: envOrDefault("MATCHMAKING_PK_ATTRIBUTE", "pk"),
		SortKeyAttribute:      envOrDefault("MATCHMAKING_SK_ATTRIBUTE", "sk"),
		Region:                os.Getenv("AWS_REGION"),
		DynamoDBEndpoint:      os.Getenv("DYNAMODB_ENDPOINT"),
		SimulationQueueURL:    os.Getenv("SIMULATION_QUEUE_URL"),
		ServiceToken:          os.Getenv("MATCHMAKING_SERVICE_TOKEN"),
		ListenAddr:            envOrDefault("LISTEN_ADDR", ":5300"),
		TurnEpochUnix:         envInt64("TURN_EPOCH_UNIX", 0),
		TurnDurationSeconds:   envInt64("TURN_DURATION_SECONDS", 0),
	}

	if cfg.TableName == "" {
		return Config{}, fmt.Errorf("config: MATCHMAKING_TABLE_NAME environment variable not set")
	}
	if cfg.ServiceToken == "" {
		return Config{}, fmt.Errorf("config: MATCHMAKING_SERVICE_TOKEN environment variable not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
