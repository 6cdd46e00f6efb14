package pkgconfig

import "time"

// Config reads typed configuration values by dotted key.
type Config interface {
	// GetInt returns the value for key as int64.
	GetInt(key string) int64
	// GetFloat returns the value for key as float64.
	GetFloat(key string) float64
	// GetString returns the value for key as string.
	GetString(key string) string
	// GetDuration returns the value for key as a time.Duration.
	GetDuration(key string) time.Duration
	// GetArray returns the value for key split by commas.
	GetArray(key string) []string
	// Close releases any resources held by the implementation.
	Close() error
}
