// Package duty resolves a duty percentage for a product by matching its
// metadata against a prioritized tariff rule table.
package duty

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"

	"landedcost/internal/model"
)

// Duty percentages are clamped to this range no matter what the rule file says.
const (
	minDutyPct = 0.0
	maxDutyPct = 40.0
)

// defaultDutyPct is the coded fallback used when the rule file cannot supply
// a default, including when the file itself fails to load.
const defaultDutyPct = 26.5

// Rule scores. An HS-code prefix hit is absolute and stops scoring for that
// rule; a vendor hit outranks any keyword count.
const (
	scoreHSCode = 1000
	scoreVendor = 100
)

const defaultRulesPath = "config/tariff_rules.json"

// Rule is a single tariff rule. A rule matches on any of its HS prefixes,
// vendor substrings, or keywords.
type Rule struct {
	HSPrefixes []string `json:"hsPrefixes,omitempty"`
	Vendors    []string `json:"vendors,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	DutyPct    float64  `json:"dutyPct"`
	Note       string   `json:"note,omitempty"`
}

// Table is an ordered tariff rule set with a default percentage. Read-only
// after load.
type Table struct {
	Rules      []Rule  `json:"rules"`
	DefaultPct float64 `json:"defaultPct"`

	loadFailed bool
}

// Query carries the product fields the resolver matches against.
type Query struct {
	Category string
	Title    string
	Brand    string
	Vendor   string
	HSCode   string
}

var (
	tableOnce   sync.Once
	sharedTable *Table
)

// Preload loads the process-wide rule table from an explicit path ahead of
// the first request, so a bad file surfaces in the logs at startup. Calling
// it after the table is loaded has no effect.
func Preload(path string) {
	tableOnce.Do(func() {
		sharedTable = LoadTable(path)
	})
}

// Estimate resolves duty for a query against the process-wide rule table. The
// table is loaded lazily on first use; a load failure degrades to zero rules
// and the coded default, it never reaches the caller.
func Estimate(q Query) model.DutyDecision {
	tableOnce.Do(func() {
		path := os.Getenv("TARIFF_RULES_PATH")
		if path == "" {
			path = defaultRulesPath
		}
		sharedTable = LoadTable(path)
	})
	return sharedTable.Resolve(q)
}

// LoadTable reads a tariff rule file. On any read or parse failure it logs
// and returns a zero-rule table that resolves everything to the coded
// default with source default-fallback.
func LoadTable(path string) *Table {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("tariff rules unavailable (%v); using default duty %.1f%%", err, defaultDutyPct)
		return &Table{DefaultPct: defaultDutyPct, loadFailed: true}
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		log.Printf("tariff rules malformed (%v); using default duty %.1f%%", err, defaultDutyPct)
		return &Table{DefaultPct: defaultDutyPct, loadFailed: true}
	}
	if t.DefaultPct <= 0 {
		t.DefaultPct = defaultDutyPct
	}
	return &t
}

// Resolve picks the highest-scoring rule for the query. On a score tie the
// rule with the lower duty percentage wins, so ambiguity never over-charges.
func (t *Table) Resolve(q Query) model.DutyDecision {
	bestScore := 0
	bestPct := 0.0
	bestSource := model.DutySourceDefault

	for _, r := range t.Rules {
		score, source := scoreRule(r, q)
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && r.DutyPct < bestPct) {
			bestScore = score
			bestPct = r.DutyPct
			bestSource = source
		}
	}

	if bestScore == 0 {
		pct := t.DefaultPct
		source := model.DutySourceDefault
		if t.loadFailed {
			source = model.DutySourceDefaultFallback
		}
		return model.DutyDecision{DutyPct: clampPct(pct), Source: source}
	}
	return model.DutyDecision{DutyPct: clampPct(bestPct), Source: bestSource}
}

func scoreRule(r Rule, q Query) (int, model.DutySource) {
	hs := strings.TrimSpace(q.HSCode)
	if hs != "" {
		for _, prefix := range r.HSPrefixes {
			if prefix != "" && strings.HasPrefix(hs, prefix) {
				return scoreHSCode, model.DutySourceHSCode
			}
		}
	}

	vendorHay := strings.ToLower(q.Vendor + " " + q.Brand)
	for _, v := range r.Vendors {
		if v != "" && strings.Contains(vendorHay, strings.ToLower(v)) {
			return scoreVendor, model.DutySourceVendor
		}
	}

	keywordHay := strings.ToLower(q.Title + " " + q.Category)
	hits := 0
	for _, k := range r.Keywords {
		if k != "" && strings.Contains(keywordHay, strings.ToLower(k)) {
			hits++
		}
	}
	if hits > 0 {
		return hits, model.DutySourceKeyword
	}
	return 0, model.DutySourceDefault
}

func clampPct(pct float64) float64 {
	if pct < minDutyPct {
		return minDutyPct
	}
	if pct > maxDutyPct {
		return maxDutyPct
	}
	return pct
}
