// Package config handles configuration management for paldeploy.
// It layers the embedded TOML defaults, an optional .paldeploy.toml in the
// work directory, PALDEPLOY_* environment variables and command line flags
// into a single Config value.
package config
