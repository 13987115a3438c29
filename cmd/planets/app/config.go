package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/planets/internal/server"
	pkgerrors "github.com/agentstation/planets/pkg/errors"
	"github.com/agentstation/planets/pkg/repository"
)

// EnvPrefix is prepended to every configuration key read from the
// environment, so server.port is read from PLANETS_SERVER_PORT.
const EnvPrefix = "PLANETS"

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Command-line flags are applied on
// top by the commands themselves.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Server configuration
	Host        string
	Port        int
	CORS        bool
	CORSOrigins []string
	Auth        bool
	AuthHeader  string
	APIKey      string
	RateLimit   int
	CacheTTL    time.Duration
	Metrics     bool
	Realtime    bool

	// Storage configuration
	Storage     repository.Config
	CatalogFile string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Environment variables (PLANETS_*)
//  2. .env and .env.local files
//  3. Config file (configFile, or planets.yaml in . or ~/.config/planets)
//  4. Defaults
//
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("planets")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "planets"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, pkgerrors.NewConfigError("file", "cannot read config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),

		Host:        v.GetString("server.host"),
		Port:        v.GetInt("server.port"),
		CORS:        v.GetBool("server.cors"),
		CORSOrigins: v.GetStringSlice("server.cors_origins"),
		Auth:        v.GetBool("server.auth"),
		AuthHeader:  v.GetString("server.auth_header"),
		APIKey:      v.GetString("api_key"),
		RateLimit:   v.GetInt("server.rate_limit"),
		CacheTTL:    v.GetDuration("server.cache_ttl"),
		Metrics:     v.GetBool("server.metrics"),
		Realtime:    v.GetBool("server.realtime"),

		Storage: repository.Config{
			Driver: v.GetString("storage.driver"),
			DSN:    v.GetString("storage.dsn"),
		},
		CatalogFile: v.GetString("catalog.file"),
	}

	return config, nil
}

// setDefaults registers a default for every key. Defaults for the server
// keys come from server.DefaultConfig.
func setDefaults(v *viper.Viper) {
	defaults := server.DefaultConfig()

	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("server.host", defaults.Host)
	v.SetDefault("server.port", defaults.Port)
	v.SetDefault("server.cors", defaults.CORSEnabled)
	v.SetDefault("server.cors_origins", defaults.CORSOrigins)
	v.SetDefault("server.auth", defaults.AuthEnabled)
	v.SetDefault("server.auth_header", defaults.AuthHeader)
	v.SetDefault("server.rate_limit", defaults.RateLimit)
	v.SetDefault("server.cache_ttl", defaults.CacheTTL)
	v.SetDefault("server.metrics", defaults.MetricsEnabled)
	v.SetDefault("server.realtime", defaults.RealtimeEnabled)

	v.SetDefault("storage.driver", repository.DriverMemory)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("catalog.file", "")
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ServerConfig returns the HTTP server configuration. Timeouts keep the
// server defaults.
func (c *Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.CORSEnabled = c.CORS
	cfg.CORSOrigins = c.CORSOrigins
	cfg.AuthEnabled = c.Auth
	cfg.AuthHeader = c.AuthHeader
	cfg.APIKey = c.APIKey
	cfg.RateLimit = c.RateLimit
	cfg.CacheTTL = c.CacheTTL
	cfg.MetricsEnabled = c.Metrics
	cfg.RealtimeEnabled = c.Realtime
	return cfg
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides a variable that is already set, so .env.local is loaded first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
