// Package config assembles service configuration from defaults, an optional JSON
// file, environment variables and command-line flags, in increasing priority.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/patric-chuzhbe/hotelratings/internal/models"
)

// Config holds the settings of both services. Each binary reads the fields it needs.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	MongoURI            string        `env:"MONGO_URI"`
	MongoDatabase       string        `env:"MONGO_DATABASE" validate:"required"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" validate:"gt=0"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	RatingServiceURL    string        `env:"RATING_SERVICE_URL" validate:"url"`
	HotelServiceURL     string        `env:"HOTEL_SERVICE_URL" validate:"url"`
	RemoteCallTimeout   time.Duration `env:"REMOTE_CALL_TIMEOUT" validate:"gt=0"`
	CircuitBreaker      bool          `env:"REMOTE_CIRCUIT_BREAKER"`
	EnrichmentMode      string        `env:"ENRICHMENT_MODE" validate:"enrichmentmode"`
	EnrichmentWorkers   int           `env:"ENRICHMENT_WORKERS" validate:"min=1"`
	ConfigFile          string        `env:"CONFIG"`
}

type fileConfig struct {
	RunAddr             *string `json:"server_address"`
	LogLevel            *string `json:"log_level"`
	MongoURI            *string `json:"mongo_uri"`
	MongoDatabase       *string `json:"mongo_database"`
	DatabaseDSN         *string `json:"database_dsn"`
	DBConnectionTimeout *string `json:"db_connection_timeout"`
	MigrationsDir       *string `json:"migrations_dir"`
	DBFileName          *string `json:"file_storage_path"`
	RatingServiceURL    *string `json:"rating_service_url"`
	HotelServiceURL     *string `json:"hotel_service_url"`
	RemoteCallTimeout   *string `json:"remote_call_timeout"`
	CircuitBreaker      *bool   `json:"remote_circuit_breaker"`
	EnrichmentMode      *string `json:"enrichment_mode"`
	EnrichmentWorkers   *int    `json:"enrichment_workers"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	LogLevel:            "info",
	MongoDatabase:       "hotelratings",
	DBConnectionTimeout: 10 * time.Second,
	RatingServiceURL:    "http://localhost:8083",
	HotelServiceURL:     "http://localhost:8082",
	RemoteCallTimeout:   5 * time.Second,
	EnrichmentMode:      models.EnrichmentModeSequential,
	EnrichmentWorkers:   4,
}

// InitOption tunes how New gathers configuration.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
	defaultRunAddr      string
}

// WithDisableFlagsParsing skips command-line parsing. Tests use it.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// WithDefaultRunAddr overrides the built-in listen address default, so each
// service binary can have its own port without extra configuration.
func WithDefaultRunAddr(addr string) InitOption {
	return func(options *initOptions) {
		options.defaultRunAddr = addr
	}
}

// New returns the merged, validated configuration.
// Priority: CLI flags > environment > JSON file > defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := Config{}
	applyDefaults(&values, defaultConfig)
	if options.defaultRunAddr != "" {
		values.RunAddr = options.defaultRunAddr
	}

	configFile := os.Getenv("CONFIG")
	if !options.disableFlagsParsing {
		scratch := values
		fs := newFlagSet(&scratch, io.Discard)
		_ = fs.Parse(os.Args[1:])
		if scratch.ConfigFile != "" {
			configFile = scratch.ConfigFile
		}
	}

	if configFile != "" {
		if err := values.loadFile(configFile); err != nil {
			return nil, err
		}
		values.ConfigFile = configFile
	}

	if err := env.Parse(&values); err != nil {
		return nil, err
	}

	if !options.disableFlagsParsing {
		fs := newFlagSet(&values, os.Stderr)
		if err := fs.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	if err := validate(&values); err != nil {
		return nil, err
	}

	return &values, nil
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

func newFlagSet(values *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
	fs.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
	fs.StringVar(&values.MongoURI, "m", values.MongoURI, "MongoDB connection URI")
	fs.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "PostgreSQL connection string")
	fs.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
	fs.StringVar(&values.ConfigFile, "c", values.ConfigFile, "JSON configuration file")
	fs.StringVar(&values.RatingServiceURL, "rating-url", values.RatingServiceURL, "base URL of the rating service")
	fs.StringVar(&values.HotelServiceURL, "hotel-url", values.HotelServiceURL, "base URL of the hotel service")
	fs.StringVar(&values.EnrichmentMode, "enrichment", values.EnrichmentMode, "hotel enrichment mode: sequential or concurrent")
	fs.IntVar(&values.EnrichmentWorkers, "workers", values.EnrichmentWorkers, "hotel lookups in flight in concurrent mode")
	fs.DurationVar(&values.RemoteCallTimeout, "remote-timeout", values.RemoteCallTimeout, "timeout of a single remote call")
	fs.BoolVar(&values.CircuitBreaker, "breaker", values.CircuitBreaker, "wrap remote calls in a circuit breaker")

	return fs
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("in internal/config/config.go/loadFile(): error while `os.ReadFile()` calling: %w", err)
	}

	var fromFile fileConfig
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("in internal/config/config.go/loadFile(): error while `json.Unmarshal()` calling: %w", err)
	}

	setString(&c.RunAddr, fromFile.RunAddr)
	setString(&c.LogLevel, fromFile.LogLevel)
	setString(&c.MongoURI, fromFile.MongoURI)
	setString(&c.MongoDatabase, fromFile.MongoDatabase)
	setString(&c.DatabaseDSN, fromFile.DatabaseDSN)
	setString(&c.MigrationsDir, fromFile.MigrationsDir)
	setString(&c.DBFileName, fromFile.DBFileName)
	setString(&c.RatingServiceURL, fromFile.RatingServiceURL)
	setString(&c.HotelServiceURL, fromFile.HotelServiceURL)
	setString(&c.EnrichmentMode, fromFile.EnrichmentMode)

	if err := setDuration(&c.DBConnectionTimeout, fromFile.DBConnectionTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.RemoteCallTimeout, fromFile.RemoteCallTimeout); err != nil {
		return err
	}
	if fromFile.CircuitBreaker != nil {
		c.CircuitBreaker = *fromFile.CircuitBreaker
	}
	if fromFile.EnrichmentWorkers != nil {
		c.EnrichmentWorkers = *fromFile.EnrichmentWorkers
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", *src, err)
	}
	*dst = d
	return nil
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func validateEnrichmentMode(fieldLevel validator.FieldLevel) bool {
	switch fieldLevel.Field().String() {
	case models.EnrichmentModeSequential, models.EnrichmentModeConcurrent:
		return true
	}
	return false
}

func validate(values *Config) error {
	validate := validator.New()

	for tag, fn := range map[string]validator.Func{
		"loglevel":       validateLogLevel,
		"filepath":       validateFilePath,
		"enrichmentmode": validateEnrichmentMode,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	return validate.Struct(values)
}
