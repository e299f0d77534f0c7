// Package quote chains the estimation pipeline: classify, carton, duty, fee
// composition, guardrail. The pipeline is a pure function of the product
// record; no I/O happens here.
package quote

import (
	"strings"

	"landedcost/internal/carton"
	"landedcost/internal/duty"
	"landedcost/internal/model"
	"landedcost/internal/pricing"
)

// Policy names accepted by NewByName and per-request overrides.
const (
	PolicyFlatFreight = "flat"
	PolicyLandedCost  = "landed"
	PolicyRetail      = "retail"
)

// Result is the full output of one quote computation.
type Result struct {
	Policy    string                `json:"policy"`
	Carton    model.CartonEstimate  `json:"carton"`
	Duty      model.DutyDecision    `json:"duty"`
	Fees      model.FeeBreakdown    `json:"fees"`
	Guardrail model.GuardrailResult `json:"guardrail"`
}

// Estimator defines the interface for quote estimation engines. An empty
// policy means the engine's default.
type Estimator interface {
	Estimate(p *model.ProductDescriptor, policy string) Result
}

// Engine is the production estimator.
type Engine struct {
	policy string
	params pricing.Params
}

// New returns an Engine with the given default policy and rates.
func New(policy string, params pricing.Params) *Engine {
	return &Engine{policy: normalizePolicy(policy), params: params}
}

// NewByName returns an Estimator by policy name. Unknown or empty names
// fall back to the retail policy, the only one that yields a customer-facing
// price for the guardrail to check.
func NewByName(name string, params pricing.Params) Estimator {
	return New(name, params)
}

// Estimate runs the full pipeline. It never fails: absent product data
// degrades to the generic carton and default duty.
func (e *Engine) Estimate(p *model.ProductDescriptor, policy string) Result {
	if policy == "" {
		policy = e.policy
	} else {
		policy = normalizePolicy(policy)
	}

	est := carton.Estimate(p)

	var q duty.Query
	var itemPrice float64
	if p != nil {
		q = duty.Query{
			Category: p.Category,
			Title:    p.Name,
			Brand:    p.Brand,
			Vendor:   p.Retailer,
			HSCode:   p.HSCode,
		}
		itemPrice = p.Price
	}
	d := duty.Estimate(q)

	var fees model.FeeBreakdown
	switch policy {
	case PolicyFlatFreight:
		fees = pricing.ComposeFlatFreight(est.CubicFeet, 1, e.params)
	case PolicyLandedCost:
		fees = pricing.ComposeLandedCost(itemPrice, 0, est.CubicFeet, 1, e.params)
	default:
		fees = pricing.ComposeRetail(itemPrice, 0, est.CubicFeet, d.DutyPct, e.params)
	}

	return Result{
		Policy:    policy,
		Carton:    est,
		Duty:      d,
		Fees:      fees,
		Guardrail: pricing.ApplyGuardrail(fees.Total, itemPrice),
	}
}

func normalizePolicy(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyFlatFreight:
		return PolicyFlatFreight
	case PolicyLandedCost:
		return PolicyLandedCost
	default:
		return PolicyRetail
	}
}
