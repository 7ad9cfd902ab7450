// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package dnsclient

import (
	"strconv"
	"strings"
)

const (
	// MinTimeoutMs and MaxTimeoutMs bound the per-resolver deadline a
	// caller may request; DefaultTimeoutMs applies when nothing usable
	// was supplied.
	MinTimeoutMs     = 2000
	MaxTimeoutMs     = 12000
	DefaultTimeoutMs = 6000
)

// recordTypes is the closed set of record types the checker accepts.
var recordTypes = map[string]bool{
	"A":     true,
	"AAAA":  true,
	"CNAME": true,
	"MX":    true,
	"TXT":   true,
	"NS":    true,
	"SOA":   true,
	"CAA":   true,
}

// ParseRecordType matches case-insensitively against the supported set.
// Anything unrecognized falls back to A rather than erroring, so a stale
// bookmark with type=SPF still produces a useful check.
func ParseRecordType(raw string) string {
	rt := strings.ToUpper(strings.TrimSpace(raw))
	if recordTypes[rt] {
		return rt
	}
	return "A"
}

// ClampTimeout parses a millisecond timeout and clamps it to the allowed
// range. Empty or unparseable input gets the default.
func ClampTimeout(raw string) int {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultTimeoutMs
	}
	if ms < MinTimeoutMs {
		return MinTimeoutMs
	}
	if ms > MaxTimeoutMs {
		return MaxTimeoutMs
	}
	return ms
}
