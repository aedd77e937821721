package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName string
	API     APIConfig
	Session SessionConfig
	State   StateConfig
	Context ContextConfig
	Logger  LoggerConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type SessionConfig struct {
	// TokenLifetime is the fallback access-token validity used when the
	// token itself carries no readable expiry claim.
	TokenLifetime time.Duration
	// RefreshLead is how long before expiry the silent refresh fires.
	RefreshLead time.Duration
}

type StateConfig struct {
	Path   string
	Bucket string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the client can run in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName: getString("APP_NAME", "shoplite"),
		API: APIConfig{
			BaseURL:   getString("SERVER_API", "http://localhost:5000/api"),
			Timeout:   getDuration("REQUEST_TIMEOUT", 15*time.Second),
			UserAgent: getString("USER_AGENT", "shoplite-client"),
		},
		Session: SessionConfig{
			TokenLifetime: getDuration("TOKEN_LIFETIME", 50*time.Minute),
			RefreshLead:   getDuration("REFRESH_LEAD", 60*time.Second),
		},
		State: StateConfig{
			Path:   getString("STATE_PATH", defaultStatePath()),
			Bucket: getString("STATE_BUCKET", "snapshots"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./state.db"
	}
	return filepath.Join(home, ".shoplite", "state.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
