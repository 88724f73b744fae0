// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/apitools/internal/chain"
	"github.com/MKhiriev/apitools/internal/cors"
	"github.com/MKhiriev/apitools/internal/logger"
	"github.com/MKhiriev/apitools/internal/utils"
)

// EnvProduction is the environment name that enables HTTPS enforcement and
// the CORS warning.
const EnvProduction = "production"

// DefaultBodyLimit caps parsed request bodies.
const DefaultBodyLimit int64 = 100 << 10

// Config holds the settings the default slots are built from.
type Config struct {
	// Environment is the NODE_ENV value ("development", "production", ...).
	Environment string

	// CORSOrigin is the parsed CORS_ORIGIN_WHITELIST. The zero value is the
	// wildcard used when the variable is unset.
	CORSOrigin cors.Origin

	// HTTPSPort is the port advertised by HTTPS redirects. 0 means 443.
	HTTPSPort int

	// BodyLimit caps the json and urlencoded parsers. 0 means DefaultBodyLimit.
	BodyLimit int64
}

// Composer builds the initial and final middleware chains.
type Composer struct {
	cfg    Config
	logger *logger.Logger
	ids    utils.IDGenerator
}

// NewComposer returns a Composer. A nil logger discards output.
func NewComposer(cfg Config, log *logger.Logger) *Composer {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}

	return &Composer{
		cfg:    cfg,
		logger: log,
		ids:    utils.NewUUIDGenerator(),
	}
}

// WithIDGenerator returns a copy of c generating request ids with g.
func (c *Composer) WithIDGenerator(g utils.IDGenerator) *Composer {
	cp := *c
	cp.ids = g
	return &cp
}

// Config returns the composer settings.
func (c *Composer) Config() Config {
	return c.cfg
}

// IsProduction reports whether the composer runs in production.
func (c *Composer) IsProduction() bool {
	return c.cfg.Environment == EnvProduction
}

// InitialChain returns helmet, forceHttps, cors, logger, json and urlencoded,
// in that order, minus the disabled slots.
func (c *Composer) InitialChain(opts Options) chain.Chain {
	return build([]slotDef{
		{SlotHelmet, c.Helmet},
		{SlotForceHTTPS, func() chain.Middleware { return c.ForceHTTPS(c.cfg.HTTPSPort) }},
		{SlotCORS, c.EnableCORS},
		{SlotLogger, c.Logger},
		{SlotJSON, c.JSON},
		{SlotURLEncoded, c.URLEncoded},
	}, opts)
}

// FinalChain returns notFound, validationErrors and errors, in that order,
// minus the disabled slots.
func (c *Composer) FinalChain(opts Options) chain.Chain {
	return build([]slotDef{
		{SlotNotFound, NotFound},
		{SlotValidationErrors, ValidationErrors},
		{SlotErrors, Errors},
	}, opts)
}
