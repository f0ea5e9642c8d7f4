package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	RewardsCalendarPath string

	EnableRewardsOutboxRelay          bool
	EnableAccountOutboxRelay          bool
	EnableRewardsRegistrationConsumer bool
}

func Load() (Config, error) {
	// A .env file is optional; variables already present in the process win.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "astrade"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		RewardsCalendarPath: os.Getenv("REWARDS_CONFIG_PATH"),

		EnableRewardsOutboxRelay:          envBool("ENABLE_REWARDS_OUTBOX_RELAY", true),
		EnableAccountOutboxRelay:          envBool("ENABLE_ACCOUNT_OUTBOX_RELAY", true),
		EnableRewardsRegistrationConsumer: envBool("ENABLE_REWARDS_REGISTRATION_CONSUMER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
