// Package config provides application configuration management using environment variables.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database/sql driver names
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Discord  DiscordConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DiscordConfig holds the gateway settings used by the sync daemon
type DiscordConfig struct {
	BotToken    string
	SyncMembers bool
	GuildIDs    []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
// It optionally loads from a .env file if it exists
func Load() (*Config, error) {
	// Try to load .env file (optional, ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Load Database Config
	maxOpenConns, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	maxIdleConns, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "5"))
	connMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	cfg.Database = DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", DriverPQ),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", "guildstore"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "guildstore_db"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	}

	// Load Discord Config
	syncMembers, err := strconv.ParseBool(getEnv("DISCORD_SYNC_MEMBERS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DISCORD_SYNC_MEMBERS: %w", err)
	}

	cfg.Discord = DiscordConfig{
		BotToken:    getEnv("DISCORD_BOT_TOKEN", ""),
		SyncMembers: syncMembers,
		GuildIDs:    splitList(getEnv("DISCORD_GUILD_IDS", "")),
	}

	// Load Logging Config
	cfg.Logging = LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration needed by every command
func (c *Config) Validate() error {
	// Validate Database Config
	if c.Database.Driver != DriverPQ && c.Database.Driver != DriverPGX {
		return fmt.Errorf("DB_DRIVER must be one of: %s, %s", DriverPQ, DriverPGX)
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must not be negative")
	}

	// Validate Logging Config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	return nil
}

// ValidateDiscord validates the settings only the sync daemon needs
func (c *Config) ValidateDiscord() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	for _, id := range c.Discord.GuildIDs {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return fmt.Errorf("DISCORD_GUILD_IDS contains an invalid snowflake %q", id)
		}
	}
	return nil
}

// GetDSN returns the database connection string. Both lib/pq and pgx accept
// the keyword/value form.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetURL returns the connection string in URL form, which golang-migrate requires
func (c *DatabaseConfig) GetURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// getEnv retrieves an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated list, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
