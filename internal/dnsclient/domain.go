// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package dnsclient

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidDomain is returned before any network call is made. The message
// is user-facing and mirrored verbatim by the HTTP handler.
var ErrInvalidDomain = errors.New("Provide a valid domain, for example: example.com")

var labelRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

const maxDomainLength = 253

// NormalizeDomain cleans up pasted input: strips a leading scheme, anything
// after the hostname, lowercases, and removes one trailing dot. Unicode
// hostnames are IDNA-mapped to their ASCII form.
func NormalizeDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	if i := strings.Index(domain, "://"); i >= 0 {
		domain = domain[i+3:]
	}
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.ToLower(domain)
	domain = strings.TrimSuffix(domain, ".")

	p := idna.New(idna.MapForLookup(), idna.Transitional(false))
	if ascii, err := p.ToASCII(domain); err == nil && ascii != "" {
		return ascii
	}
	return domain
}

// ValidateDomain applies the hostname rules: at most 253 characters, at
// least one dot, and every label 1-63 characters of [a-z0-9-] with no
// leading or trailing hyphen. Input is expected to be normalized already.
func ValidateDomain(domain string) bool {
	if domain == "" || len(domain) > maxDomainLength {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}

	for _, label := range strings.Split(domain, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		if !labelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

// CleanDomain normalizes and validates in one step.
func CleanDomain(raw string) (string, error) {
	domain := NormalizeDomain(raw)
	if !ValidateDomain(domain) {
		return "", ErrInvalidDomain
	}
	return domain, nil
}
