// Package config loads daemon configuration from QUARRY_* environment
// variables with sane defaults, and validates it before anything starts.
package config
