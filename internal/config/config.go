package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Store selection
	StoreBackend string
	StoreTimeout time.Duration

	// MongoDB
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// SQLite
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror (worker)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		StoreTimeout: getEnvDuration("STORE_TIMEOUT", 5*time.Second),

		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "outlay"),
		MongoCollection: getEnv("MONGO_COLLECTION", "expenses"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/outlay.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "outlay"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate store backend
	validBackends := []string{"memory", "mongo", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.StoreBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends))
	}

	if c.StoreTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid store timeout %v: must be at least 100ms", c.StoreTimeout))
	} else if c.StoreTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid store timeout %v: must be at most 1 minute", c.StoreTimeout))
	}

	// Validate MongoDB configuration if backend is mongo
	if c.StoreBackend == "mongo" {
		if c.MongoURI == "" {
			errors = append(errors, "MongoDB URI cannot be empty when using mongo backend")
		} else if parsedURI, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI '%s': %v", c.MongoURI, err))
		} else if parsedURI.Scheme != "mongodb" && parsedURI.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURI.Scheme))
		}
		if c.MongoDatabase == "" {
			errors = append(errors, "MongoDB database name cannot be empty when using mongo backend")
		}
		if c.MongoCollection == "" {
			errors = append(errors, "MongoDB collection name cannot be empty when using mongo backend")
		}
	}

	// Validate SQLite configuration if backend is sqlite
	if c.StoreBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
