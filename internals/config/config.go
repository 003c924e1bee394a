// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RabbitHost string
	RabbitPort string
	RabbitUser string
	RabbitPass string

	HTTPAddr   string
	RetryDelay time.Duration
}

// Load reads the environment, falling back to defaults that match the local
// docker-compose broker.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		RabbitHost: getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),
		RabbitUser: getEnv("RABBITMQ_USER", "admin"),
		RabbitPass: getEnv("RABBITMQ_PASS", "admin123"),
		HTTPAddr:   getEnv("HTTP_ADDR", ":5000"),
		RetryDelay: getDuration("RETRY_DELAY", 5*time.Second),
	}
}

// AMQPURL builds the broker connection string.
func (c Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.RabbitUser, c.RabbitPass, c.RabbitHost, c.RabbitPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
