package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Supported DB_DRIVER values
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	OpenAIAPIKey  string
	AuthRateLimit string

	// TrustedProxies lists the proxy addresses or CIDRs whose X-Forwarded-For
	// header is honored. Empty means the peer address is always the client.
	TrustedProxies []string
}

// Load reads configuration from the environment and, when CONFIG_FILE is
// set, from that file. A CONFIG_FILE that cannot be read is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", p, err)
		}
	}

	defaults := map[string]string{
		"PORT":            "8080",
		"GIN_MODE":        "debug",
		"LOG_LEVEL":       "info",
		"DB_DRIVER":       DriverMySQL,
		"DB_HOST":         "localhost",
		"DB_PORT":         "3306",
		"DB_USER":         "flowtrack",
		"DB_PASSWORD":     "flowtrack",
		"DB_NAME":         "flowtrack",
		"DB_PATH":         "flowtrack.db",
		"SESSION_STORE":   "redis",
		"REDIS_HOST":      "localhost",
		"REDIS_PORT":      "6379",
		"SESSION_SECRET":  "default-secret-key-change-me",
		"OPENAI_API_KEY":  "",
		"AUTH_RATE_LIMIT": "20-M",
		"TRUSTED_PROXIES": "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Config{
		Port:           v.GetString("PORT"),
		GinMode:        v.GetString("GIN_MODE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBPath:         v.GetString("DB_PATH"),
		SessionStore:   strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:      v.GetString("REDIS_HOST"),
		RedisPort:      v.GetString("REDIS_PORT"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		AuthRateLimit:  v.GetString("AUTH_RATE_LIMIT"),
		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
	}, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
