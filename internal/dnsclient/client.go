// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package dnsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"dnstool/propagation/internal/resolvers"
)

var UserAgent = "DNSTool-PropagationCheck/1.0 (+https://dnstool.it-help.tech)"

func SetUserAgentVersion(version string) {
	UserAgent = fmt.Sprintf("DNSTool-PropagationCheck/%s (+https://dnstool.it-help.tech)", version)
}

const (
	acceptDNSJSON = "application/dns-json"
	maxBodyBytes  = 1 << 20
)

// Flags carries the DNS header bits the dns-json responses expose.
type Flags struct {
	AD bool `json:"AD"`
	TC bool `json:"TC"`
	RD bool `json:"RD"`
	RA bool `json:"RA"`
}

// Result is one resolver's outcome for one check. Failures are data, not
// errors: Query never returns anything else, no matter what the network or
// the upstream JSON does.
type Result struct {
	ResolverID        string      `json:"resolverId"`
	ResolverLabel     string      `json:"resolverLabel"`
	OK                bool        `json:"ok"`
	Status            int         `json:"status"`
	ResponseTimeMs    int         `json:"responseTimeMs"`
	Flags             Flags       `json:"flags"`
	Answers           []AnswerRow `json:"answers"`
	Authorities       []AnswerRow `json:"authorities"`
	AnswerSet         []string    `json:"answerSet"`
	AnswerFingerprint string      `json:"answerFingerprint"`
	Error             string      `json:"error,omitempty"`
}

// Client issues single DoH JSON queries. One shared pooled HTTP client
// serves every resolver; per-call deadlines come from the request context
// built in Query.
type Client struct {
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Query performs exactly one GET against one resolver, bounded by timeout.
// The returned Result always carries the resolver's ID; ResponseTimeMs is
// measured around the whole exchange, timeouts included.
func (c *Client) Query(ctx context.Context, domain, recordType string, resolver resolvers.Definition, timeout time.Duration) Result {
	result := Result{
		ResolverID:    resolver.ID,
		ResolverLabel: resolver.Label,
		Answers:       []AnswerRow{},
		Authorities:   []AnswerRow{},
	}
	start := time.Now()
	defer func() {
		result.ResponseTimeMs = int(time.Since(start).Milliseconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolver.Endpoint, nil)
	if err != nil {
		result.Error = "Resolver request failed."
		return result
	}

	q := url.Values{}
	q.Set("name", domain)
	q.Set("type", recordType)
	req.URL.RawQuery = q.Encode()
	if resolver.NeedsJSONAccept {
		req.Header.Set("Accept", acceptDNSJSON)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.Error = fmt.Sprintf("Timeout after %d ms.", timeout.Milliseconds())
		} else {
			slog.Debug("DoH request failed", "resolver", resolver.ID, "domain", domain, "type", recordType, "error", err)
			result.Error = "Resolver request failed."
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Status = resp.StatusCode
		result.Error = fmt.Sprintf("Resolver returned %d.", resp.StatusCode)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.Error = fmt.Sprintf("Timeout after %d ms.", timeout.Milliseconds())
		} else {
			result.Error = "Resolver request failed."
		}
		return result
	}

	var payload dohResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Debug("DoH response unparseable", "resolver", resolver.ID, "domain", domain, "error", err)
		result.Error = "Resolver request failed."
		return result
	}

	result.OK = payload.Status == 0
	result.Status = payload.Status
	result.Flags = Flags{AD: payload.AD, TC: payload.TC, RD: payload.RD, RA: payload.RA}
	result.Answers = normalizeRecords(payload.Answer)
	result.Authorities = normalizeRecords(payload.Authority)
	return result
}
