// Package config loads, normalizes, and validates the optional TOML
// configuration file. Defaults live in defaults.go; anything set on the
// command line overrides the file.
package config
