// Package model defines the core records exchanged between the quoting
// pipeline stages and serialized at the HTTP boundary.
package model

// ProductDescriptor is the scraped product metadata a quote is computed from.
// Every field is optional; a zero Price disables the multiplier guardrail.
type ProductDescriptor struct {
	Name        string   `json:"name,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	URL         string   `json:"url,omitempty"`
	Retailer    string   `json:"retailer,omitempty"`
	Category    string   `json:"category,omitempty"`
	Breadcrumbs []string `json:"breadcrumbs,omitempty"`
	Weight      float64  `json:"weight,omitempty"` // pounds
	Price       float64  `json:"price,omitempty"`  // USD
	HSCode      string   `json:"hs_code,omitempty"`
}

// Dimensions are per-box carton dimensions in inches.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CartonEstimate is the derived packaging estimate for one product.
// Notes records which heuristic branches were taken; downstream dispute
// workflows rely on it.
type CartonEstimate struct {
	CubicFeet  float64    `json:"cubic_feet"`
	Boxes      int        `json:"boxes"`
	Dimensions Dimensions `json:"dimensions"`
	Notes      string     `json:"notes"`
	Source     string     `json:"source"`
}

// CartonSourceEstimated is the only carton source today; real measured
// dimensions would introduce a second value.
const CartonSourceEstimated = "estimated"

// DutySource indicates which kind of tariff rule produced a duty percentage.
type DutySource string

// Duty source constants, from most to least specific.
const (
	DutySourceHSCode          DutySource = "hs-code"
	DutySourceVendor          DutySource = "vendor"
	DutySourceKeyword         DutySource = "keyword"
	DutySourceDefault         DutySource = "default"
	DutySourceDefaultFallback DutySource = "default-fallback"
)

// DutyDecision is the resolved duty percentage and its provenance.
type DutyDecision struct {
	DutyPct float64    `json:"duty_pct"`
	Source  DutySource `json:"source"`
}

// FeeBreakdown carries the monetary components of a composed quote.
// Each policy fills the fields it defines; unused fields stay zero.
type FeeBreakdown struct {
	Freight  float64 `json:"freight"`
	Customs  float64 `json:"customs"`
	Handling float64 `json:"handling,omitempty"`
	Duty     float64 `json:"duty,omitempty"`
	CardFee  float64 `json:"card_fee,omitempty"`
	Margin   float64 `json:"margin"`
	Tax      float64 `json:"tax,omitempty"`
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

// GuardrailResult is the outcome of the plausibility check on a composed
// total. ImpliedMultiplier is nil when the item price was absent.
type GuardrailResult struct {
	AdjustedTotal     float64    `json:"adjusted_total"`
	ImpliedMultiplier *float64   `json:"implied_multiplier"`
	FallbackUsed      bool       `json:"fallback_used"`
	Bounds            [2]float64 `json:"bounds"`
}
