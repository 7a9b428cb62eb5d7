package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/paint-palette-mcp/internal/engine"
	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
	"github.com/ironsheep/paint-palette-mcp/internal/paint"
)

// Environment variables read by LoadConfig.
const (
	EnvLogLevel       = "PALETTE_MCP_LOG_LEVEL"
	EnvCacheSize      = "PALETTE_MCP_CACHE_SIZE"
	EnvPickDelayMS    = "PALETTE_MCP_SAMPLE_DELAY_MS"
	EnvMatchThreshold = "PALETTE_MCP_MATCH_THRESHOLD"
)

// Config holds the server settings.
type Config struct {
	// LogLevel filters server log output on stderr.
	LogLevel slog.Level

	// CacheSize is the number of decoded images kept in memory.
	CacheSize int

	// PickDelay is the latest-wins window for targeted color sampling.
	PickDelay time.Duration

	// MatchThreshold is the default probable-match distance for paint_match.
	MatchThreshold float64
}

// DefaultConfig returns the settings used when no environment overrides exist.
func DefaultConfig() Config {
	return Config{
		LogLevel:       slog.LevelInfo,
		CacheSize:      imaging.DefaultCacheCapacity,
		PickDelay:      engine.DefaultPickDelay,
		MatchThreshold: paint.DefaultThreshold,
	}
}

// LoadConfig builds a Config from environment lookups, starting from
// DefaultConfig. Pass os.Getenv in production.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, v, err)
		}
	}

	if v := strings.TrimSpace(getenv(EnvCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive integer", EnvCacheSize, v)
		}
		cfg.CacheSize = n
	}

	if v := strings.TrimSpace(getenv(EnvPickDelayMS)); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 1 {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive integer", EnvPickDelayMS, v)
		}
		cfg.PickDelay = time.Duration(ms) * time.Millisecond
	}

	if v := strings.TrimSpace(getenv(EnvMatchThreshold)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return cfg, fmt.Errorf("invalid %s %q: must be a positive number", EnvMatchThreshold, v)
		}
		cfg.MatchThreshold = f
	}

	return cfg, nil
}
