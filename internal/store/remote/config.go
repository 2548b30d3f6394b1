package remote

import "time"

// Config holds connection and behavior settings for the remote backend
type Config struct {
	// URL is the backend connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// DailyTTL bounds how long per-day play counters and records are kept.
	// Must comfortably exceed one day so "today" reads never race expiry.
	DailyTTL time.Duration
}

// DefaultConfig returns sensible defaults for the remote backend
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DailyTTL:     48 * time.Hour,
	}
}
