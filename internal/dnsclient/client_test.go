// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package dnsclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dnstool/propagation/internal/resolvers"
)

func testResolver(endpoint string, needsAccept bool) resolvers.Definition {
	return resolvers.Definition{
		ID:              "test",
		Label:           "Test Resolver",
		Endpoint:        endpoint,
		NeedsJSONAccept: needsAccept,
	}
}

func TestQuery_Success(t *testing.T) {
	var gotAccept, gotName, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotName = r.URL.Query().Get("name")
		gotType = r.URL.Query().Get("type")
		w.Write([]byte(`{
			"Status": 0, "TC": false, "RD": true, "RA": true, "AD": true,
			"Answer": [
				{"name": "example.com.", "type": 1, "TTL": 300, "data": "93.184.216.34"}
			]
		}`))
	}))
	defer server.Close()

	c := New()
	res := c.Query(context.Background(), "example.com", "A", testResolver(server.URL, true), 2*time.Second)

	if gotAccept != "application/dns-json" {
		t.Errorf("expected dns-json Accept header, got %q", gotAccept)
	}
	if gotName != "example.com" || gotType != "A" {
		t.Errorf("expected name/type query params, got name=%q type=%q", gotName, gotType)
	}
	if !res.OK {
		t.Fatalf("expected ok result, got error %q", res.Error)
	}
	if res.Status != 0 {
		t.Errorf("expected DNS status 0, got %d", res.Status)
	}
	if !res.Flags.AD || !res.Flags.RD || !res.Flags.RA || res.Flags.TC {
		t.Errorf("unexpected flags: %+v", res.Flags)
	}
	if len(res.Answers) != 1 || res.Answers[0].Data != "93.184.216.34" {
		t.Errorf("unexpected answers: %+v", res.Answers)
	}
	if res.ResponseTimeMs < 0 {
		t.Errorf("expected non-negative response time, got %d", res.ResponseTimeMs)
	}
}

func TestQuery_NoAcceptHeaderWhenNotRequired(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"Status": 0}`))
	}))
	defer server.Close()

	New().Query(context.Background(), "example.com", "A", testResolver(server.URL, false), 2*time.Second)

	if gotAccept == "application/dns-json" {
		t.Error("Accept header should not be set for resolvers that do not need it")
	}
}

func TestQuery_NXDomainIsNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status": 3, "Authority": [{"name": "com.", "type": 6, "TTL": 900, "data": "a.gtld-servers.net. nstld.verisign-grs.com. 1 1800 900 604800 86400"}]}`))
	}))
	defer server.Close()

	res := New().Query(context.Background(), "nxdomain.example.com", "A", testResolver(server.URL, false), 2*time.Second)

	if res.OK {
		t.Error("expected ok=false for NXDOMAIN")
	}
	if res.Status != 3 {
		t.Errorf("expected status 3, got %d", res.Status)
	}
	if res.Error != "" {
		t.Errorf("NXDOMAIN is not a transport error, got %q", res.Error)
	}
	if len(res.Authorities) != 1 {
		t.Errorf("expected authority record to survive, got %+v", res.Authorities)
	}
}

func TestQuery_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	res := New().Query(context.Background(), "example.com", "A", testResolver(server.URL, false), 2*time.Second)

	if res.OK {
		t.Error("expected ok=false for non-2xx")
	}
	if res.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", res.Status)
	}
	if res.Error != "Resolver returned 502." {
		t.Errorf("unexpected error message: %q", res.Error)
	}
}

func TestQuery_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html><html>not json</html>`))
	}))
	defer server.Close()

	res := New().Query(context.Background(), "example.com", "A", testResolver(server.URL, false), 2*time.Second)

	if res.OK {
		t.Error("expected ok=false for unparseable body")
	}
	if res.Error != "Resolver request failed." {
		t.Errorf("unexpected error message: %q", res.Error)
	}
}

func TestQuery_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"Status": 0}`))
	}))
	defer server.Close()

	start := time.Now()
	res := New().Query(context.Background(), "example.com", "A", testResolver(server.URL, false), 50*time.Millisecond)
	elapsed := time.Since(start)

	if res.OK {
		t.Error("expected ok=false on timeout")
	}
	if !strings.HasPrefix(res.Error, "Timeout after ") {
		t.Errorf("expected timeout error, got %q", res.Error)
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("timeout did not bound the call, took %v", elapsed)
	}
}

func TestQuery_TransportFailure(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := New().Query(context.Background(), "example.com", "A", testResolver(url, false), 2*time.Second)

	if res.OK {
		t.Error("expected ok=false on transport failure")
	}
	if res.Error != "Resolver request failed." {
		t.Errorf("unexpected error message: %q", res.Error)
	}
}

func TestQuery_PartialJSONDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	res := New().Query(context.Background(), "example.com", "A", testResolver(server.URL, false), 2*time.Second)

	if !res.OK {
		t.Errorf("empty object decodes to Status 0, expected ok, got error %q", res.Error)
	}
	if len(res.Answers) != 0 || len(res.Authorities) != 0 {
		t.Errorf("expected empty record sets, got %+v / %+v", res.Answers, res.Authorities)
	}
}
