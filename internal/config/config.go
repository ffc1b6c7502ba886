package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	BaseURL string

	Tables Tables

	SMTP SMTPConfig
}

// Tables holds the late-bound table names so deployments migrating from an
// existing schema can keep their naming.
type Tables struct {
	Users       string
	Teams       string
	TeamUser    string
	TeamInvites string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"))
	if err != nil {
		refreshExpiry = 168 * time.Hour
	}

	tables := Tables{
		Users:       getEnv("USERS_TABLE", "users"),
		Teams:       getEnv("TEAMS_TABLE", "teams"),
		TeamUser:    getEnv("TEAM_USER_TABLE", "team_user"),
		TeamInvites: getEnv("TEAM_INVITES_TABLE", "team_invites"),
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		Tables: tables,

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

// DefaultTables returns the table names used when nothing is configured.
func DefaultTables() Tables {
	return Tables{
		Users:       "users",
		Teams:       "teams",
		TeamUser:    "team_user",
		TeamInvites: "team_invites",
	}
}

// Validate rejects table names that cannot be safely interpolated into SQL.
func (t Tables) Validate() error {
	for _, name := range []string{t.Users, t.Teams, t.TeamUser, t.TeamInvites} {
		if !identifierRe.MatchString(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
