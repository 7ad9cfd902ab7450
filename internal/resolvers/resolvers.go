// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package resolvers is the static catalog of public DoH endpoints the
// propagation checker fans out to. Pure configuration, no behavior: the
// length of the catalog is the fan-out width and the consensus denominator.
package resolvers

// Definition describes one DoH resolver's JSON query convention.
type Definition struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Endpoint        string `json:"endpoint"`
	NeedsJSONAccept bool   `json:"-"`
}

// Cloudflare and Quad9 only speak dns-json when the Accept header asks
// for it; Google and AdGuard expose a dedicated /resolve path instead.
var catalog = []Definition{
	{ID: "google", Label: "Google Public DNS", Endpoint: "https://dns.google/resolve", NeedsJSONAccept: false},
	{ID: "cloudflare", Label: "Cloudflare", Endpoint: "https://cloudflare-dns.com/dns-query", NeedsJSONAccept: true},
	{ID: "quad9", Label: "Quad9", Endpoint: "https://dns.quad9.net:5053/dns-query", NeedsJSONAccept: true},
	{ID: "adguard", Label: "AdGuard DNS", Endpoint: "https://dns.adguard-dns.com/resolve", NeedsJSONAccept: false},
}

// Default returns the shipped catalog. Callers get a copy so a request can
// never mutate the shared registry.
func Default() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}
