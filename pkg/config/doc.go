// Package config loads typed configuration from environment variables.
//
// Config structs declare their variables with github.com/caarlos0/env tags.
// Load parses a struct once per type and caches it, so packages can load the
// same config independently without re-reading the environment. A .env file
// in the working directory is picked up automatically; LoadEnv reads others.
package config
