package pricing

import "testing"

func TestComposeFlatFreightRoundsUpToFive(t *testing.T) {
	p := DefaultParams()
	// freight 10*8.50=85, customs 10, handling 15 => 110, already on a $5 step
	fb := ComposeFlatFreight(10, 1, p)
	if fb.Freight != 85 || fb.Customs != 10 || fb.Handling != 15 {
		t.Fatalf("unexpected components: %+v", fb)
	}
	if fb.Subtotal != 110 {
		t.Fatalf("expected subtotal 110, got %v", fb.Subtotal)
	}
	// 110 * 1.25 = 137.50
	if fb.Total != 137.50 {
		t.Fatalf("expected total 137.50, got %v", fb.Total)
	}

	// freight 9.3*8.50=79.05 => 79.05+10+15=104.05, ceil to 105
	fb = ComposeFlatFreight(9.3, 1, p)
	if fb.Subtotal != 105 {
		t.Fatalf("expected subtotal 105, got %v", fb.Subtotal)
	}
	// 105 * 1.25 = 131.25
	if fb.Total != 131.25 {
		t.Fatalf("expected total 131.25, got %v", fb.Total)
	}
}

func TestComposeLandedCostOceanFloor(t *testing.T) {
	p := DefaultParams()
	// 1 cuft * 8.50 = 8.50, below the 25 floor
	fb := ComposeLandedCost(100, 0, 1, 1, p)
	if fb.Freight != 25 {
		t.Fatalf("expected ocean floor 25, got %v", fb.Freight)
	}
}

func TestComposeLandedCostCardFeeAfterMargin(t *testing.T) {
	p := DefaultParams()
	// item 900, volume 10: ocean 85, customs 10, margin 900*0.25=225,
	// card fee (900+225+85+10)*0.035 = 1220*0.035 = 42.70,
	// total 85+10+225+42.70 = 362.70
	fb := ComposeLandedCost(900, 0, 10, 1, p)
	if fb.Margin != 225 {
		t.Fatalf("expected margin 225, got %v", fb.Margin)
	}
	if fb.CardFee != 42.70 {
		t.Fatalf("expected card fee 42.70, got %v", fb.CardFee)
	}
	if fb.Total != 362.70 {
		t.Fatalf("expected total 362.70, got %v", fb.Total)
	}
}

func TestComposeRetailDutyOnCIF(t *testing.T) {
	p := DefaultParams()
	// item 1000, volume 18: freight 153, CIF 1153,
	// duty+wharfage 1153*(0.25+0.0125) = 302.6625 -> 302.66
	fb := ComposeRetail(1000, 0, 18, 25, p)
	if fb.Freight != 153 {
		t.Fatalf("expected freight 153, got %v", fb.Freight)
	}
	if fb.Duty != 302.66 {
		t.Fatalf("expected duty 302.66, got %v", fb.Duty)
	}
	// card fee (1000+302.66+153)*0.035 = 1455.66*0.035 = 50.9481 -> 50.95
	if fb.CardFee != 50.95 {
		t.Fatalf("expected card fee 50.95, got %v", fb.CardFee)
	}
	// margin (1455.66+50.95)*0.20 = 1506.61*0.20 = 301.322 -> 301.32
	if fb.Margin != 301.32 {
		t.Fatalf("expected margin 301.32, got %v", fb.Margin)
	}
	// shipping/handling 153+50.95+301.32 = 505.27
	// retail before tax 1000+302.66+505.27 = 1807.93
	if fb.Subtotal != 1807.93 {
		t.Fatalf("expected retail before tax 1807.93, got %v", fb.Subtotal)
	}
	if fb.Tax != 0 || fb.Total != 1807.93 {
		t.Fatalf("expected no tax, got %+v", fb)
	}
}

func TestComposeRetailWithNJTax(t *testing.T) {
	p := DefaultParams()
	p.ApplyNJTax = true
	fb := ComposeRetail(1000, 0, 18, 25, p)
	// 1807.93 * 0.06 = 108.4758 -> 108.48
	if fb.Tax != 108.48 {
		t.Fatalf("expected tax 108.48, got %v", fb.Tax)
	}
	if fb.Total != 1916.41 {
		t.Fatalf("expected total 1916.41, got %v", fb.Total)
	}
}

func TestApplyGuardrailWithinBounds(t *testing.T) {
	res := ApplyGuardrail(1900, 1000)
	if res.FallbackUsed {
		t.Fatalf("fallback should not trigger at multiplier 1.9")
	}
	if res.AdjustedTotal != 1900 {
		t.Fatalf("expected 1900, got %v", res.AdjustedTotal)
	}
	if res.ImpliedMultiplier == nil || *res.ImpliedMultiplier != 1.9 {
		t.Fatalf("expected multiplier 1.9, got %v", res.ImpliedMultiplier)
	}
}

func TestApplyGuardrailFallback(t *testing.T) {
	res := ApplyGuardrail(3000, 1000)
	if !res.FallbackUsed {
		t.Fatalf("fallback should trigger at multiplier 3.0")
	}
	// 1000 * 1.95 = 1950.00
	if res.AdjustedTotal != 1950.00 {
		t.Fatalf("expected 1950.00, got %v", res.AdjustedTotal)
	}

	// Too cheap is just as implausible as too expensive.
	res = ApplyGuardrail(1200, 1000)
	if !res.FallbackUsed || res.AdjustedTotal != 1950.00 {
		t.Fatalf("expected low-side fallback to 1950.00, got %+v", res)
	}
}

func TestApplyGuardrailNoItemPrice(t *testing.T) {
	res := ApplyGuardrail(3000, 0)
	if res.FallbackUsed || res.AdjustedTotal != 3000 {
		t.Fatalf("expected pass-through, got %+v", res)
	}
	if res.ImpliedMultiplier != nil {
		t.Fatalf("expected nil multiplier, got %v", *res.ImpliedMultiplier)
	}
	if res.Bounds != [2]float64{1.7, 2.5} {
		t.Fatalf("unexpected bounds: %v", res.Bounds)
	}
}
