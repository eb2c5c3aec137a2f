package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Source backends.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Store drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreNone     = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Source             string
	AthleticsCSV       string
	CitiesCSV          string
	TemperatureCSV     string
	AthleticsDelimiter rune
	StagingDSN         string

	StoreDriver     string
	StoreDSN        string
	BatchSize       int
	LoadMaxAttempts int
	ParquetDir      string
	KafkaBrokers    []string
	KafkaSinkTopic  string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Reconciliation tuning.
	RefDataFile                string
	GeoMinConfidence           int
	WeatherSimilarityThreshold float64
	MinResultValue             float64
	MaxResultValue             float64
	TemperatureMinYear         int
	TemperatureMaxYear         int
	DropUnmatchedWeather       bool

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	delimiter, size := utf8.DecodeRuneInString(sharedcfg.EnvOrDefault("ATHLETICS_CSV_DELIMITER", ";"))
	if delimiter == utf8.RuneError || size == 0 {
		return nil, errors.New("invalid ATHLETICS_CSV_DELIMITER")
	}

	p := &parser{}
	cfg := &Config{
		Source:             sharedcfg.EnvOrDefault("SOURCE", SourceCSV),
		AthleticsCSV:       sharedcfg.EnvOrDefault("ATHLETICS_CSV", "data/athletics.csv"),
		CitiesCSV:          sharedcfg.EnvOrDefault("CITIES_CSV", "data/cities.csv"),
		TemperatureCSV:     sharedcfg.EnvOrDefault("TEMPERATURE_CSV", "data/temperatures.csv"),
		AthleticsDelimiter: delimiter,
		StagingDSN:         os.Getenv("STAGING_DSN"),

		StoreDriver:     sharedcfg.EnvOrDefault("STORE_DRIVER", StoreSQLite),
		StoreDSN:        sharedcfg.EnvOrDefault("STORE_DSN", "athletics_dw.db"),
		BatchSize:       batchSize,
		LoadMaxAttempts: p.positiveInt("LOAD_MAX_ATTEMPTS", 3),
		ParquetDir:      os.Getenv("PARQUET_DIR"),
		KafkaSinkTopic:  sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "reconciled-athletics"),

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefDataFile:                os.Getenv("REFDATA_FILE"),
		GeoMinConfidence:           p.positiveInt("GEO_MIN_CONFIDENCE", 85),
		WeatherSimilarityThreshold: p.float("WEATHER_SIMILARITY_THRESHOLD", 60),
		MinResultValue:             p.float("MIN_RESULT_VALUE", 0.1),
		MaxResultValue:             p.float("MAX_RESULT_VALUE", 50000),
		TemperatureMinYear:         p.positiveInt("TEMPERATURE_MIN_YEAR", 1990),
		TemperatureMaxYear:         p.positiveInt("TEMPERATURE_MAX_YEAR", 2024),
		DropUnmatchedWeather:       p.bool("DROP_UNMATCHED_WEATHER", false),

		MapboxToken:     os.Getenv("MAPBOX_TOKEN"),
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
	}
	if p.err != nil {
		return nil, p.err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceCSV:
		if c.AthleticsCSV == "" {
			return errors.New("ATHLETICS_CSV is required")
		}
	case SourcePostgres:
		if c.StagingDSN == "" {
			return errors.New("STAGING_DSN is required when SOURCE=postgres")
		}
	default:
		return fmt.Errorf("invalid SOURCE %q: want csv or postgres", c.Source)
	}

	switch c.StoreDriver {
	case StoreSQLite, StorePostgres:
		if c.StoreDSN == "" {
			return errors.New("STORE_DSN is required")
		}
	case StoreNone:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want sqlite, postgres or none", c.StoreDriver)
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	if c.MinResultValue < 0 || c.MinResultValue >= c.MaxResultValue {
		return errors.New("MIN_RESULT_VALUE must be non-negative and below MAX_RESULT_VALUE")
	}
	if c.TemperatureMinYear > c.TemperatureMaxYear {
		return errors.New("TEMPERATURE_MIN_YEAR must not exceed TEMPERATURE_MAX_YEAR")
	}
	if c.GeoMinConfidence > 100 {
		return errors.New("GEO_MIN_CONFIDENCE must be at most 100")
	}
	if c.WeatherSimilarityThreshold < 0 || c.WeatherSimilarityThreshold > 100 {
		return errors.New("WEATHER_SIMILARITY_THRESHOLD must be between 0 and 100")
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

// parser records the first invalid variable so Load can report it by name.
type parser struct {
	err error
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %q", key, value)
	}
}

func (p *parser) positiveInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		p.fail(key, s)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		p.fail(key, s)
		return def
	}
	return f
}

func (p *parser) bool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(key, s)
		return def
	}
	return b
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
