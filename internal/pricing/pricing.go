// Package pricing composes freight, customs, margin, card, and tax charges
// into a landed cost or retail price, and sanity-checks the result.
//
// Three pricing policies coexist. They are alternative historical formulas
// with different margin bases and rounding order; call sites depend on the
// exact behavior of each, so they must not be unified.
package pricing

import (
	"math"

	"landedcost/internal/model"
)

// Params are the tunable rates shared by the policies. Zero values are not
// usable; start from DefaultParams.
type Params struct {
	FreightRatePerCuFt  float64 // USD per cubic foot of estimated carton volume
	CustomsFeePerVendor float64 // flat clearance fee per vendor on the order
	HandlingFee         float64 // flat handling fee (policy A)
	OceanFreightMin     float64 // ocean freight floor (policy B)
	CardFeeRate         float64 // card processing rate
	MarginRate          float64 // margin rate (policies A and B)
	MarginPct           float64 // margin rate (policy C)
	WharfagePct         float64 // port handling, fraction of CIF (policy C)
	ApplyNJTax          bool    // whether policy C adds NJ sales tax
	NJTaxRatePct        float64 // NJ sales tax, percent
}

// DefaultParams returns the production rates.
func DefaultParams() Params {
	return Params{
		FreightRatePerCuFt:  8.50,
		CustomsFeePerVendor: 10,
		HandlingFee:         15,
		OceanFreightMin:     25,
		CardFeeRate:         0.035,
		MarginRate:          0.25,
		MarginPct:           0.20,
		WharfagePct:         0.0125,
		ApplyNJTax:          false,
		NJTaxRatePct:        6.0,
	}
}

// ComposeFlatFreight is policy A: volume-based freight plus flat fees,
// rounded up to the next $5 before margin. Used for quick shipping-only
// quotes where the item is paid separately.
func ComposeFlatFreight(volumeCuFt float64, vendors int, p Params) model.FeeBreakdown {
	freight := round2(volumeCuFt * p.FreightRatePerCuFt)
	customs := round2(float64(vendors) * p.CustomsFeePerVendor)
	handling := round2(p.HandlingFee)
	// Round up to the nearest $5 as a safety buffer.
	subtotal := math.Ceil((freight+customs+handling)/5) * 5
	total := round2(subtotal * (1 + p.MarginRate))
	return model.FeeBreakdown{
		Freight:  freight,
		Customs:  customs,
		Handling: handling,
		Margin:   round2(total - subtotal),
		Subtotal: subtotal,
		Total:    total,
	}
}

// ComposeLandedCost is policy B: ocean freight with a floor, margin on the
// landed base, card fee applied after margin on the full pre-card subtotal.
func ComposeLandedCost(itemPrice, usDelivery, volumeCuFt float64, vendors int, p Params) model.FeeBreakdown {
	ocean := round2(math.Max(p.OceanFreightMin, volumeCuFt*p.FreightRatePerCuFt))
	customs := round2(float64(vendors) * p.CustomsFeePerVendor)
	landedBase := round2(itemPrice + usDelivery)
	margin := round2(landedBase * p.MarginRate)
	cardFee := round2((landedBase + margin + ocean + customs) * p.CardFeeRate)
	total := round2(ocean + customs + margin + cardFee)
	return model.FeeBreakdown{
		Freight:  ocean,
		Customs:  customs,
		CardFee:  cardFee,
		Margin:   margin,
		Subtotal: round2(landedBase + ocean + customs),
		Total:    total,
	}
}

// ComposeRetail is policy C: duty and wharfage on the CIF base, then card
// fee, margin, and optional NJ sales tax, producing the customer-facing
// retail price. The freight used in the CIF base must be the pre-markup
// value; card fee and margin are layered on afterwards.
func ComposeRetail(itemPrice, usDelivery, volumeCuFt, dutyPct float64, p Params) model.FeeBreakdown {
	freight := round2(volumeCuFt * p.FreightRatePerCuFt)
	cif := round2(itemPrice + usDelivery + freight)
	dutyWharfage := round2(cif * (dutyPct/100 + p.WharfagePct))
	cardFee := round2((itemPrice + dutyWharfage + freight) * p.CardFeeRate)
	margin := round2((itemPrice + dutyWharfage + freight + cardFee) * p.MarginPct)
	shippingHandling := round2(freight + cardFee + margin)
	retailBeforeTax := round2(itemPrice + dutyWharfage + shippingHandling)
	tax := 0.0
	if p.ApplyNJTax {
		tax = round2(retailBeforeTax * p.NJTaxRatePct / 100)
	}
	return model.FeeBreakdown{
		Freight:  freight,
		Duty:     dutyWharfage,
		CardFee:  cardFee,
		Margin:   margin,
		Tax:      tax,
		Subtotal: retailBeforeTax,
		Total:    round2(retailBeforeTax + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
