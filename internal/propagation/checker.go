// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package propagation runs the multi-resolver fan-out and assembles the
// final report: one query per catalog entry, all concurrent, wait for all.
package propagation

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dnstool/propagation/internal/consensus"
	"dnstool/propagation/internal/dnsclient"
	"dnstool/propagation/internal/resolvers"
	"dnstool/propagation/internal/telemetry"
)

// Querier is the single-resolver query contract. dnsclient.Client is the
// production implementation; tests substitute call-counting fakes.
type Querier interface {
	Query(ctx context.Context, domain, recordType string, resolver resolvers.Definition, timeout time.Duration) dnsclient.Result
}

// Report is the request-scoped output of one check. Built once, then
// read-only; nothing in it outlives the request.
type Report struct {
	OK         bool               `json:"ok"`
	Domain     string             `json:"domain"`
	Type       string             `json:"type"`
	CheckedAt  time.Time          `json:"checkedAt"`
	DurationMs int                `json:"durationMs"`
	TimeoutMs  int                `json:"timeoutMs"`
	Resolvers  []dnsclient.Result `json:"resolvers"`
	Summary    consensus.Summary  `json:"summary"`
}

type Checker struct {
	registry  []resolvers.Definition
	querier   Querier
	telemetry *telemetry.Registry
}

type Option func(*Checker)

func WithRegistry(r []resolvers.Definition) Option {
	return func(c *Checker) { c.registry = r }
}

func WithQuerier(q Querier) Option {
	return func(c *Checker) { c.querier = q }
}

func WithTelemetry(t *telemetry.Registry) Option {
	return func(c *Checker) { c.telemetry = t }
}

func New(opts ...Option) *Checker {
	c := &Checker{
		registry: resolvers.Default(),
		querier:  dnsclient.New(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Check validates the raw inputs, queries every resolver concurrently and
// reduces the outcomes to a consensus summary. Only input validation can
// return an error, and it does so before any network call; every resolver
// failure is folded into its own slot of Report.Resolvers.
func (c *Checker) Check(ctx context.Context, rawDomain, rawType, rawTimeout string) (*Report, error) {
	domain, err := dnsclient.CleanDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	recordType := dnsclient.ParseRecordType(rawType)
	timeoutMs := dnsclient.ClampTimeout(rawTimeout)
	timeout := time.Duration(timeoutMs) * time.Millisecond

	start := time.Now()
	results := make([]dnsclient.Result, len(c.registry))

	// Wait-for-all barrier, not a race: a slow or dead resolver never
	// aborts a sibling, and every goroutine writes only its own slot.
	var g errgroup.Group
	for i, resolver := range c.registry {
		i, resolver := i, resolver
		g.Go(func() error {
			res := c.querier.Query(ctx, domain, recordType, resolver, timeout)
			c.record(resolver.ID, res)

			values := make([]string, 0, len(res.Answers))
			for _, row := range res.Answers {
				values = append(values, row.Data)
			}
			res.AnswerSet = consensus.AnswerSet(values)
			res.AnswerFingerprint = consensus.Fingerprint(res.AnswerSet)

			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	summary := consensus.Summarize(results)
	if !summary.FullyPropagated {
		slog.Warn("resolver disagreement",
			"domain", domain,
			"record_type", recordType,
			"unique_answer_sets", summary.UniqueAnswerSets,
			"propagation_percent", summary.PropagationPercent,
		)
	}

	return &Report{
		OK:         true,
		Domain:     domain,
		Type:       recordType,
		CheckedAt:  start.UTC(),
		DurationMs: int(time.Since(start).Milliseconds()),
		TimeoutMs:  timeoutMs,
		Resolvers:  results,
		Summary:    summary,
	}, nil
}

func (c *Checker) record(resolverID string, res dnsclient.Result) {
	if c.telemetry == nil {
		return
	}
	// A non-zero DNS status still means the resolver answered; only
	// transport-level failures count against its health.
	if res.Error == "" {
		c.telemetry.RecordSuccess(resolverID, time.Duration(res.ResponseTimeMs)*time.Millisecond)
	} else {
		c.telemetry.RecordFailure(resolverID, res.Error)
	}
}
