package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	bundle  Bundle
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected configs. Earlier configs take precedence: mergo
// only fills fields that are still zero.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}
	config.Bundle = b.bundle

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

// withDotenv exports the dotenv files of the current environment. The
// environment name and the base path are taken from the configs collected
// so far, then from the process environment.
func (b *configBuilder) withDotenv() *configBuilder {
	environment := b.lookup(func(c *StructuredConfig) string { return c.Environment }, "NODE_ENV", DefaultEnvironment)
	path := b.lookup(func(c *StructuredConfig) string { return c.DotenvPath }, "DOTENV_PATH", DefaultDotenvPath)

	if err := loadDotenv(path, environment); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withBundle decodes config/config-<env>.{json,yaml,yml}. A missing bundle
// is not an error.
func (b *configBuilder) withBundle() *configBuilder {
	environment := b.lookup(func(c *StructuredConfig) string { return c.Environment }, "NODE_ENV", DefaultEnvironment)
	dir := b.lookup(func(c *StructuredConfig) string { return c.ConfigDir }, "CONFIG_DIR", DefaultConfigDir)

	bundleCfg, bundle, err := loadBundle(dir, environment)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.bundle = bundle
	if bundleCfg != nil {
		b.configs = append(b.configs, bundleCfg)
	}
	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaults())
	return b
}

// lookup returns the first non-empty value among the collected configs, the
// named environment variable and fallback.
func (b *configBuilder) lookup(field func(*StructuredConfig) string, envName, fallback string) string {
	for _, cfg := range b.configs {
		if v := field(cfg); v != "" {
			return v
		}
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

func defaults() *StructuredConfig {
	return &StructuredConfig{
		Environment: DefaultEnvironment,
		ConfigDir:   DefaultConfigDir,
		DotenvPath:  DefaultDotenvPath,
		Server: Server{
			Port:            DefaultPort,
			HTTPSPort:       DefaultHTTPSPort,
			TrustProxy:      DefaultTrustProxy,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}
