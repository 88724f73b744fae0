package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags parses the command-line flags in args into a fresh config.
// Unset flags leave their fields zero so lower sources can fill them.
//
// Flags:
//
//	-p port
//	-https-port https port advertised by redirects
//	-env environment name
//	-c/-config-dir directory holding config-<env> bundles
//	-dotenv dotenv base path
//	-trust-proxy trusted proxies
//	-log-level log level
//	-shutdown-timeout graceful shutdown timeout (e.g., "10s")
func parseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("apitools", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&cfg.Server.Port, "p", 0, "HTTP port")
	fs.IntVar(&cfg.Server.HTTPSPort, "https-port", 0, "HTTPS port advertised by redirects")
	fs.StringVar(&cfg.Environment, "env", "", "Environment name")
	fs.StringVar(&cfg.ConfigDir, "c", "", "Config bundle directory")
	fs.StringVar(&cfg.ConfigDir, "config-dir", "", "Config bundle directory (alias)")
	fs.StringVar(&cfg.DotenvPath, "dotenv", "", "Dotenv base path")
	fs.StringVar(&cfg.Server.TrustProxy, "trust-proxy", "", "Trusted proxies")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout (e.g., 10s)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, nil
}
