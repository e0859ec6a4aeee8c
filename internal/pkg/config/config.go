package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle lookup and type conversion and return the zero value
// for keys that are not set.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetUint64 retrieves the value associated with key as a uint64.
	GetUint64(key string) uint64

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// Both native lists and "<element1>,<element2>,..." strings are accepted.
	GetArray(key string) []string
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"store.path":                 "2fa.json",
		"store.lock_timeout_seconds": 5,

		"otp.issuer":         "twofa",
		"otp.default_digits": 6,
		"otp.default_period": 30,

		"clipboard.enabled": true,

		"log.level":       "warn",
		"log.format":      "text",
		"log.mask_fields": "secret,uri,key,code",

		"instrument.enabled":                 false,
		"instrument.service_name":            "twofa",
		"instrument.service_version":         "dev",
		"instrument.env":                     "local",
		"instrument.otlp_endpoint":           "localhost:4317",
		"instrument.otlp_secure":             false,
		"instrument.trace_sample_ratio":      1.0,
		"instrument.metric_interval_seconds": 10,
	}
}
