package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	BaseTokenURI          string
	MarketOperatorAccount string

	DefaultCollectionName   string
	DefaultCollectionSymbol string
	DefaultCollectionImage  string
	DefaultCollectionAdmin  string

	OutboxRelayBatchSize int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "curio"
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

		BaseTokenURI:          envString("BASE_TOKEN_URI", "https://ipfs.infura.io/ipfs/"),
		MarketOperatorAccount: envString("MARKET_OPERATOR_ACCOUNT", "marketplace"),

		DefaultCollectionName:   envString("DEFAULT_COLLECTION_NAME", "cure"),
		DefaultCollectionSymbol: envString("DEFAULT_COLLECTION_SYMBOL", "cur"),
		DefaultCollectionImage:  envString("DEFAULT_COLLECTION_IMAGE", ""),
		DefaultCollectionAdmin:  envString("DEFAULT_COLLECTION_ADMIN", "curio"),

		OutboxRelayBatchSize: 100,
	}, nil
}

func envString(name string, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return raw
}
