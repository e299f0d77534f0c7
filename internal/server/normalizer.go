package server

import (
	"encoding/json"
	"errors"
	"strings"

	"landedcost/internal/model"
)

// Normalizer maps source-specific scraper payloads into a ProductDescriptor.
type Normalizer interface {
	Normalize(source string, body []byte) (*model.ProductDescriptor, error)
}

// ErrMissingName is returned when a payload cannot produce a product name.
var ErrMissingName = errors.New("missing product name")

// NewNormalizer selects a normalizer for the given source.
// Currently returns DefaultNormalizer for all sources.
func NewNormalizer(source string) Normalizer { return &DefaultNormalizer{} }

// DefaultNormalizer attempts to extract common fields from diverse payloads.
type DefaultNormalizer struct{}

func (n *DefaultNormalizer) Normalize(source string, body []byte) (*model.ProductDescriptor, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	name := getString(payload, []string{"name", "title", "product_name", "displayName"})
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	p := &model.ProductDescriptor{
		Name:     name,
		Brand:    getString(payload, []string{"brand", "vendor", "manufacturer"}),
		URL:      getString(payload, []string{"url", "link", "product_url"}),
		Retailer: getString(payload, []string{"retailer", "store", "site"}),
		Category: getString(payload, []string{"category", "product_type", "department"}),
		HSCode:   getString(payload, []string{"hs_code", "hsCode", "tariff_code"}),
	}
	if p.Retailer == "" {
		p.Retailer = source
	}

	if v := getAny(payload, []string{"price", "sale_price", "current_price", "price_usd"}); v != nil {
		if f, ok := toFloat(v); ok {
			p.Price = f
		}
	}
	if v := getAny(payload, []string{"weight", "weight_lbs", "shipping_weight"}); v != nil {
		if f, ok := toFloat(v); ok {
			p.Weight = f
		}
	}

	// Breadcrumbs: accept a list of strings under common keys
	if v := getAny(payload, []string{"breadcrumbs", "categories", "breadcrumb"}); v != nil {
		if items, ok := v.([]any); ok {
			for _, it := range items {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					p.Breadcrumbs = append(p.Breadcrumbs, s)
				}
			}
		}
	}

	return p, nil
}

// getString returns the first non-empty string from the candidate keys.
// Supports dot-path navigation for nested maps.
func getString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// getAny returns the first non-nil value from the candidate keys.
func getAny(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v := getPath(m, k); v != nil {
			return v
		}
	}
	return nil
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
	parts := strings.Split(path, ".")
	var cur any = m
	for _, p := range parts {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := mm[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err == nil {
			return f, true
		}
		return 0, false
	case string:
		var n json.Number = json.Number(strings.TrimSpace(t))
		f, err := n.Float64()
		if err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
