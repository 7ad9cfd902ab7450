// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"

	"dnstool/propagation/internal/dnsclient"
)

type Config struct {
	Port             string
	AppVersion       string
	DefaultTimeoutMs int
	Testing          bool
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	defaultTimeout := dnsclient.DefaultTimeoutMs
	if raw := os.Getenv("RESOLVER_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("RESOLVER_TIMEOUT_MS must be an integer, got %q", raw)
		}
		if ms < dnsclient.MinTimeoutMs || ms > dnsclient.MaxTimeoutMs {
			return nil, fmt.Errorf("RESOLVER_TIMEOUT_MS must be between %d and %d", dnsclient.MinTimeoutMs, dnsclient.MaxTimeoutMs)
		}
		defaultTimeout = ms
	}

	return &Config{
		Port:             port,
		AppVersion:       "26.19.38",
		DefaultTimeoutMs: defaultTimeout,
		Testing:          false,
	}, nil
}
