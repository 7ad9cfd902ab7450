// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package consensus turns a set of per-resolver answers into a propagation
// verdict. It is vote counting over normalized answer sets, not byte
// equality: TTLs and record ordering legitimately differ between resolvers
// that agree on the underlying DNS state.
package consensus

import (
	"math"
	"sort"
	"strings"

	"dnstool/propagation/internal/dnsclient"
)

// NoAnswerFingerprint marks a successful response with an empty answer set
// (NOERROR with no records of the queried type).
const NoAnswerFingerprint = "__NO_ANSWER__"

const fingerprintSep = " | "

// Mismatch is one successful resolver whose answer set diverges from the
// majority, reported with its own values for operator comparison.
type Mismatch struct {
	ResolverID string   `json:"resolverId"`
	Label      string   `json:"label"`
	AnswerSet  []string `json:"answerSet"`
}

type Summary struct {
	ResolverCount       int        `json:"resolverCount"`
	SuccessfulResolvers int        `json:"successfulResolvers"`
	FailedResolvers     int        `json:"failedResolvers"`
	UniqueAnswerSets    int        `json:"uniqueAnswerSets"`
	MajorityCount       int        `json:"majorityCount"`
	PropagationPercent  float64    `json:"propagationPercent"`
	FullyPropagated     bool       `json:"fullyPropagated"`
	InsufficientData    bool       `json:"insufficientData"`
	ConsensusAnswers    []string   `json:"consensusAnswers"`
	Mismatches          []Mismatch `json:"mismatches"`
}

// NormalizeValue strips surrounding quote characters and collapses internal
// whitespace, so cosmetic formatting differences between resolvers (TXT
// quoting, padded SOA fields) never count as a real divergence. Quotes come
// off first: a quoted value with padding inside the quotes must still land
// on the same normal form. Idempotent.
func NormalizeValue(value string) string {
	v := strings.Trim(value, `"`)
	return strings.Join(strings.Fields(v), " ")
}

// AnswerSet builds the sorted, deduplicated set of normalized data values.
func AnswerSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	set := make([]string, 0, len(values))
	for _, v := range values {
		n := NormalizeValue(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		set = append(set, n)
	}
	sort.Strings(set)
	return set
}

// Fingerprint derives the deterministic identity of an answer set.
func Fingerprint(set []string) string {
	if len(set) == 0 {
		return NoAnswerFingerprint
	}
	return strings.Join(set, fingerprintSep)
}

// SplitFingerprint is the inverse of Fingerprint; the sentinel maps back to
// an empty list.
func SplitFingerprint(fp string) []string {
	if fp == "" || fp == NoAnswerFingerprint {
		return []string{}
	}
	return strings.Split(fp, fingerprintSep)
}

// Summarize computes the propagation verdict. Results must be in registry
// order: the majority tie-break is first-seen order while scanning, which
// keeps the outcome deterministic when two fingerprints draw equal votes.
func Summarize(results []dnsclient.Result) Summary {
	summary := Summary{
		ResolverCount:    len(results),
		ConsensusAnswers: []string{},
		Mismatches:       []Mismatch{},
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		if !r.OK || r.Error != "" {
			continue
		}
		summary.SuccessfulResolvers++
		if _, seen := counts[r.AnswerFingerprint]; !seen {
			order = append(order, r.AnswerFingerprint)
		}
		counts[r.AnswerFingerprint]++
	}
	summary.FailedResolvers = summary.ResolverCount - summary.SuccessfulResolvers
	summary.UniqueAnswerSets = len(counts)

	var majorityFingerprint string
	for _, fp := range order {
		if counts[fp] > summary.MajorityCount {
			majorityFingerprint = fp
			summary.MajorityCount = counts[fp]
		}
	}

	if summary.SuccessfulResolvers > 0 {
		pct := float64(summary.MajorityCount) / float64(summary.SuccessfulResolvers) * 100
		summary.PropagationPercent = math.Round(pct*10) / 10
	}

	// With zero successes there are zero distinct answer sets, so this
	// stays true; InsufficientData is the signal that the verdict is
	// vacuous rather than a real all-clear.
	summary.FullyPropagated = summary.UniqueAnswerSets <= 1
	summary.InsufficientData = summary.SuccessfulResolvers == 0

	if summary.MajorityCount > 0 {
		summary.ConsensusAnswers = SplitFingerprint(majorityFingerprint)
		for _, r := range results {
			if !r.OK || r.Error != "" {
				continue
			}
			if r.AnswerFingerprint != majorityFingerprint {
				summary.Mismatches = append(summary.Mismatches, Mismatch{
					ResolverID: r.ResolverID,
					Label:      r.ResolverLabel,
					AnswerSet:  append([]string{}, r.AnswerSet...),
				})
			}
		}
	}

	return summary
}
