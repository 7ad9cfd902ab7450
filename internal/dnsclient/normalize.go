// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package dnsclient

import (
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// dohResponse is the dns-json wire shape shared by Google, Cloudflare,
// Quad9 and AdGuard. Every field is effectively optional upstream, so every
// field here defaults safely under partial JSON.
type dohResponse struct {
	Status    int         `json:"Status"`
	TC        bool        `json:"TC"`
	RD        bool        `json:"RD"`
	RA        bool        `json:"RA"`
	AD        bool        `json:"AD"`
	Answer    []dohRecord `json:"Answer"`
	Authority []dohRecord `json:"Authority"`
}

type dohRecord struct {
	Name string   `json:"name"`
	Type int      `json:"type"`
	TTL  *float64 `json:"TTL"`
	Data string   `json:"data"`
}

// AnswerRow is the canonical per-record shape: name without the trailing
// dot, mnemonic type, TTL when the upstream sent one, non-empty data.
type AnswerRow struct {
	Name string `json:"name"`
	Type string `json:"type"`
	TTL  *int   `json:"ttl"`
	Data string `json:"data"`
}

// rrTypeNames covers the types the upstream resolvers actually return for
// the supported queries (CNAME chains can surface SRV and friends even for
// an A lookup). Anything else is reported by its numeric code.
var rrTypeNames = map[int]string{
	int(dns.TypeA):     "A",
	int(dns.TypeNS):    "NS",
	int(dns.TypeCNAME): "CNAME",
	int(dns.TypeSOA):   "SOA",
	int(dns.TypeMX):    "MX",
	int(dns.TypeTXT):   "TXT",
	int(dns.TypeAAAA):  "AAAA",
	int(dns.TypeSRV):   "SRV",
	int(dns.TypeCAA):   "CAA",
}

func rrTypeName(code int) string {
	if name, ok := rrTypeNames[code]; ok {
		return name
	}
	return strconv.Itoa(code)
}

// normalizeRecords maps raw dns-json rows into AnswerRows, dropping any row
// whose data is blank so placeholder entries never reach the consensus
// computation.
func normalizeRecords(records []dohRecord) []AnswerRow {
	rows := make([]AnswerRow, 0, len(records))
	for _, rec := range records {
		data := strings.TrimSpace(rec.Data)
		if data == "" {
			continue
		}
		row := AnswerRow{
			Name: strings.TrimSuffix(rec.Name, "."),
			Type: rrTypeName(rec.Type),
			Data: data,
		}
		if rec.TTL != nil {
			ttl := int(*rec.TTL)
			row.TTL = &ttl
		}
		rows = append(rows, row)
	}
	return rows
}
