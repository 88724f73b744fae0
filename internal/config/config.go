// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/apitools/internal/cors"
	myHTTP "github.com/MKhiriev/apitools/internal/handler/http"
	"github.com/MKhiriev/apitools/internal/logger"
)

// Default values applied by the last builder stage.
const (
	DefaultEnvironment     = "development"
	DefaultConfigDir       = "config"
	DefaultDotenvPath      = ".env"
	DefaultPort            = 3000
	DefaultHTTPSPort       = 443
	DefaultTrustProxy      = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Environment names with special meaning.
const (
	EnvDevelopment = "development"
	EnvProduction  = myHTTP.EnvProduction
	EnvTest        = "test"
)

// StructuredConfig is the root configuration object of the service.
//
// Fields are filled from command-line flags, environment variables (after
// the dotenv files have been loaded), the config-<env> bundle and finally
// the built-in defaults. The first source that provides a non-zero value
// wins.
type StructuredConfig struct {
	// Environment is the deployment environment name.
	// Env: NODE_ENV
	Environment string `env:"NODE_ENV" json:"environment" yaml:"environment"`

	// ConfigDir is the directory holding the config-<env> bundles.
	// Env: CONFIG_DIR
	ConfigDir string `env:"CONFIG_DIR" json:"-" yaml:"-"`

	// DotenvPath is the base path of the dotenv files.
	// Env: DOTENV_PATH
	DotenvPath string `env:"DOTENV_PATH" json:"-" yaml:"-"`

	Server Server `json:"server" yaml:"server"`
	CORS   CORS   `json:"cors" yaml:"cors"`
	Log    Log    `json:"log" yaml:"log"`

	// Bundle is the raw content of the loaded config-<env> file.
	Bundle Bundle `json:"-" yaml:"-"`
}

// Server holds the listener and request handling settings.
type Server struct {
	// Port is the plain HTTP port. Env: PORT
	Port int `env:"PORT" json:"port" yaml:"port"`

	// HTTPSPort is advertised by the HTTPS redirect in production.
	// Env: HTTPS_PORT
	HTTPSPort int `env:"HTTPS_PORT" json:"httpsPort" yaml:"httpsPort"`

	// TrustProxy is the comma-separated list of trusted proxy addresses
	// or CIDR ranges. Env: TRUST_PROXY
	TrustProxy string `env:"TRUST_PROXY" json:"trustProxy" yaml:"trustProxy"`

	// BodyLimit caps the parsed request bodies in bytes. Env: BODY_LIMIT
	BodyLimit int64 `env:"BODY_LIMIT" json:"bodyLimit" yaml:"bodyLimit"`

	// ShutdownTimeout bounds the graceful shutdown. Env: SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" json:"-" yaml:"-"`
}

// CORS holds the raw origin whitelist.
type CORS struct {
	// Whitelist is nil when CORS_ORIGIN_WHITELIST is unset. An empty
	// value is kept, it means "no origin allowed".
	Whitelist *string `json:"whitelist" yaml:"whitelist"`
}

// Log holds the logger settings.
type Log struct {
	// Level is a zerolog level name. Env: LOG_LEVEL
	Level string `env:"LOG_LEVEL" json:"level" yaml:"level"`

	// Format is "pretty" or "json". Empty picks pretty in development.
	// Env: LOG_FORMAT
	Format string `env:"LOG_FORMAT" json:"format" yaml:"format"`
}

// IsProduction reports whether the service runs in production.
func (cfg *StructuredConfig) IsProduction() bool {
	return cfg.Environment == EnvProduction
}

// CORSOrigin parses the whitelist into an origin specification.
func (cfg *StructuredConfig) CORSOrigin() (cors.Origin, error) {
	if cfg.CORS.Whitelist == nil {
		return cors.ParseWhitelist("", false)
	}
	return cors.ParseWhitelist(*cfg.CORS.Whitelist, true)
}

// HTTPConfig returns the settings the middleware composer is built from.
func (cfg *StructuredConfig) HTTPConfig() (myHTTP.Config, error) {
	origin, err := cfg.CORSOrigin()
	if err != nil {
		return myHTTP.Config{}, fmt.Errorf("error parsing CORS_ORIGIN_WHITELIST: %w", err)
	}

	return myHTTP.Config{
		Environment: cfg.Environment,
		CORSOrigin:  origin,
		HTTPSPort:   cfg.Server.HTTPSPort,
		BodyLimit:   cfg.Server.BodyLimit,
	}, nil
}

// LoggerOptions returns the logger settings for the configured environment.
func (cfg *StructuredConfig) LoggerOptions() logger.Options {
	pretty := cfg.Environment == EnvDevelopment
	switch cfg.Log.Format {
	case "json":
		pretty = false
	case "pretty":
		pretty = true
	}

	return logger.Options{Level: cfg.Log.Level, Pretty: pretty}
}

// GetStructuredConfig loads, merges and validates the configuration. args
// are the command-line arguments without the program name.
//
// Sources in priority order:
//  1. Command-line flags
//  2. Environment variables, including the dotenv files
//  3. The config-<env> bundle (JSON or YAML)
//  4. Built-in defaults
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(args).
		withDotenv().
		withEnv().
		withBundle().
		withDefaults().
		build()
}
