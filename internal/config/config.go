package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN              string
	Environment        string
	ListenAddr         string
	JWTSecret          string
	BlockedDomainsFile string
	DefaultGroupID     string
	MigrationsPath     string
}

func Load() (*Config, error) {
	// A missing .env file is fine, plain environment variables then.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:              os.Getenv("DB_DSN"),
		Environment:        os.Getenv("ENV"),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		BlockedDomainsFile: os.Getenv("BLOCKED_DOMAINS_FILE"),
		DefaultGroupID:     os.Getenv("DEFAULT_GROUP_ID"),
		MigrationsPath:     os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.BlockedDomainsFile == "" {
		cfg.BlockedDomainsFile = "blocked-domains.txt"
	}
	if cfg.DefaultGroupID == "" {
		cfg.DefaultGroupID = "default"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}
