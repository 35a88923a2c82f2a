package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// AMQPURL enables the order.created publisher when non-empty.
	AMQPURL string

	// PublicDir is served at / when the directory exists.
	PublicDir string

	RunMigrations bool
}

// Load reads configuration from the environment, with defaults that allow the
// service to start offline (no reachable database, no broker).
func Load(logger *log.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found, using environment variables")
	}

	return Config{
		Port:          getenv("PORT", "3000"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "storefront"),
		AMQPURL:       getenv("AMQP_URL", ""),
		PublicDir:     getenv("PUBLIC_DIR", "public"),
		RunMigrations: getenvBool("RUN_MIGRATIONS", true),
	}
}

// DSN builds the postgres connection string from the individual parts.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
