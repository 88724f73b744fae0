// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// bundleExtensions are tried in order; the first existing file is used.
var bundleExtensions = []string{"json", "yaml", "yml"}

// Bundle is the decoded content of a config-<env> file. Nested sections are
// reached with dot-separated paths such as "server.port".
type Bundle map[string]any

// Get returns the value stored at path.
func (b Bundle) Get(path string) (any, bool) {
	var cur any = map[string]any(b)
	for _, key := range strings.Split(path, ".") {
		var section map[string]any
		switch c := cur.(type) {
		case map[string]any:
			section = c
		case Bundle:
			section = c
		default:
			return nil, false
		}

		var ok bool
		if cur, ok = section[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string stored at path.
func (b Bundle) String(path string) (string, bool) {
	v, ok := b.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the integer stored at path. JSON numbers are accepted when
// they have no fractional part.
func (b Bundle) Int(path string) (int, bool) {
	v, ok := b.Get(path)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// Duration returns the duration stored at path as a Go duration string
// ("10s") or a number of seconds. A missing value yields zero.
func (b Bundle) Duration(path string) (time.Duration, error) {
	v, ok := b.Get(path)
	if !ok {
		return 0, nil
	}

	if s, ok := v.(string); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidBundle, path, err)
		}
		return d, nil
	}
	if n, ok := b.Int(path); ok {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("%w: %s: unsupported duration %v", ErrInvalidBundle, path, v)
}

// loadBundle reads <dir>/config-<env>.{json,yaml,yml}. It returns a nil
// config and an empty bundle when no file exists.
func loadBundle(dir, env string) (*StructuredConfig, Bundle, error) {
	for _, ext := range bundleExtensions {
		path := filepath.Join(dir, fmt.Sprintf("config-%s.%s", env, ext))

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading config bundle %q: %w", path, err)
		}

		cfg, bundle, err := decodeBundle(data, ext)
		if err != nil {
			return nil, nil, fmt.Errorf("%w %q: %w", ErrInvalidBundle, path, err)
		}
		return cfg, bundle, nil
	}

	return nil, Bundle{}, nil
}

func decodeBundle(data []byte, ext string) (*StructuredConfig, Bundle, error) {
	unmarshal := json.Unmarshal
	if ext != "json" {
		unmarshal = yaml.Unmarshal
	}

	// A plain map keeps nested sections as map[string]any; yaml.v3 would
	// propagate the named type otherwise.
	raw := map[string]any{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	bundle := Bundle(raw)

	cfg := &StructuredConfig{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, nil, err
	}

	timeout, err := bundle.Duration("server.shutdownTimeout")
	if err != nil {
		return nil, nil, err
	}
	cfg.Server.ShutdownTimeout = timeout

	return cfg, bundle, nil
}
