package quote

import (
	"testing"

	"landedcost/internal/model"
	"landedcost/internal/pricing"
)

func TestEstimateRetailPipeline(t *testing.T) {
	// The process-wide tariff table has no rule file in the test environment,
	// so duty resolves to the 26.5% default-fallback.
	est := New(PolicyRetail, pricing.DefaultParams())
	p := &model.ProductDescriptor{
		Name:  "IKEA KIVIK sectional sofa",
		Price: 1000,
	}
	res := est.Estimate(p, "")
	if res.Policy != PolicyRetail {
		t.Fatalf("unexpected policy: %s", res.Policy)
	}
	// IKEA sectional template: 2 boxes 46x27x12 = 17.25 cuft
	if res.Carton.CubicFeet != 17.25 || res.Carton.Boxes != 2 {
		t.Fatalf("unexpected carton: %+v", res.Carton)
	}
	if res.Duty.DutyPct != 26.5 || res.Duty.Source != model.DutySourceDefaultFallback {
		t.Fatalf("unexpected duty: %+v", res.Duty)
	}
	if res.Fees.Total <= 0 {
		t.Fatalf("expected positive total, got %v", res.Fees.Total)
	}
	if res.Guardrail.ImpliedMultiplier == nil {
		t.Fatalf("expected implied multiplier with a priced product")
	}
}

func TestEstimateNilProductDegrades(t *testing.T) {
	est := New(PolicyRetail, pricing.DefaultParams())
	res := est.Estimate(nil, "")
	if res.Carton.CubicFeet != 6.9 || res.Carton.Boxes != 1 {
		t.Fatalf("expected generic default carton, got %+v", res.Carton)
	}
	// No price means the guardrail passes the total through unchecked.
	if res.Guardrail.ImpliedMultiplier != nil || res.Guardrail.FallbackUsed {
		t.Fatalf("expected unchecked guardrail, got %+v", res.Guardrail)
	}
}

func TestEstimatePolicyOverride(t *testing.T) {
	est := New(PolicyRetail, pricing.DefaultParams())
	res := est.Estimate(&model.ProductDescriptor{Name: "side table", Price: 100}, PolicyFlatFreight)
	if res.Policy != PolicyFlatFreight {
		t.Fatalf("unexpected policy: %s", res.Policy)
	}
	// Flat freight subtotal always lands on a $5 step.
	cents := res.Fees.Subtotal * 100
	if res.Fees.Subtotal <= 0 || int(cents)%500 != 0 {
		t.Fatalf("expected $5-step subtotal, got %v", res.Fees.Subtotal)
	}
}

func TestNewByNameUnknownFallsBackToRetail(t *testing.T) {
	est := NewByName("bogus", pricing.DefaultParams())
	res := est.Estimate(nil, "")
	if res.Policy != PolicyRetail {
		t.Fatalf("expected retail, got %s", res.Policy)
	}
}
