package pricing

import "landedcost/internal/model"

// Multiplier guardrail constants. These are a business safety net against
// carton or duty estimation errors compounding into absurd totals; they are
// deliberately not configurable.
const (
	MultiplierMin      = 1.7
	MultiplierMax      = 2.5
	FallbackMultiplier = 1.95
)

// ApplyGuardrail checks a composed total against the item price. A total
// outside [MultiplierMin, MultiplierMax] times the item price is replaced by
// itemPrice * FallbackMultiplier and flagged. With no usable item price the
// total passes through unchecked.
func ApplyGuardrail(finalTotal, itemPrice float64) model.GuardrailResult {
	res := model.GuardrailResult{
		AdjustedTotal: round2(finalTotal),
		Bounds:        [2]float64{MultiplierMin, MultiplierMax},
	}
	if itemPrice <= 0 {
		return res
	}
	multiplier := finalTotal / itemPrice
	res.ImpliedMultiplier = &multiplier
	if multiplier < MultiplierMin || multiplier > MultiplierMax {
		res.AdjustedTotal = round2(itemPrice * FallbackMultiplier)
		res.FallbackUsed = true
	}
	return res
}
