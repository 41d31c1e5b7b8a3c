package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/vladimirvolkov/artillery/internal/game"
)

type Config struct {
	Port           string
	StaticDir      string
	AllowedOrigins []string

	MaxConnsPerIP int
	MsgRate       int // intents per second per IP
	MaxMatches    int

	LogLevel  string
	LogFormat string

	// Seed fixes the terrain sequence; 0 picks a fresh seed per match.
	Seed  uint64
	Rules game.Rules
}

// Load reads an optional .env file, then the environment. A missing .env is
// fine; a malformed one or an unparsable value is an error naming the key.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Port:      getEnvDefault("PORT", "8080"),
		StaticDir: getEnvDefault("STATIC_DIR", "../client/dist"),
		LogLevel:  getEnvDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvDefault("LOG_FORMAT", "text"),
		Rules:     game.DefaultRules(),
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.MaxConnsPerIP, err = getEnvInt("MAX_CONNS_PER_IP", 4); err != nil {
		return Config{}, err
	}
	if cfg.MsgRate, err = getEnvInt("MSG_RATE", 120); err != nil {
		return Config{}, err
	}
	if cfg.MaxMatches, err = getEnvInt("MAX_MATCHES", 100); err != nil {
		return Config{}, err
	}
	if cfg.Seed, err = getEnvUint("SEED", 0); err != nil {
		return Config{}, err
	}

	r := &cfg.Rules
	if r.FieldWidth, err = getEnvFloat("FIELD_WIDTH", r.FieldWidth); err != nil {
		return Config{}, err
	}
	if r.FieldHeight, err = getEnvFloat("FIELD_HEIGHT", r.FieldHeight); err != nil {
		return Config{}, err
	}
	if r.TerrainSegments, err = getEnvInt("TERRAIN_SEGMENTS", r.TerrainSegments); err != nil {
		return Config{}, err
	}
	if r.Gravity, err = getEnvFloat("GRAVITY", r.Gravity); err != nil {
		return Config{}, err
	}
	if r.MaxPower, err = getEnvFloat("MAX_POWER", r.MaxPower); err != nil {
		return Config{}, err
	}
	if r.SettleTicks, err = getEnvFloat("SETTLE_TICKS", r.SettleTicks); err != nil {
		return Config{}, err
	}
	if r.TickRate, err = getEnvInt("TICK_RATE", r.TickRate); err != nil {
		return Config{}, err
	}
	if err := r.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.MaxConnsPerIP <= 0 || cfg.MsgRate <= 0 || cfg.MaxMatches <= 0 {
		return Config{}, fmt.Errorf("MAX_CONNS_PER_IP, MSG_RATE and MAX_MATCHES must be positive")
	}
	return cfg, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	opts := log.Options{Level: lvl, ReportTimestamp: true}
	switch format {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("LOG_FORMAT: unknown format %q", format)
	}
	return log.NewWithOptions(w, opts), nil
}

func getEnvDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
