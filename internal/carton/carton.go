// Package carton estimates packaging dimensions, box count, and billable
// cubic footage for a scraped product.
package carton

import (
	"fmt"
	"math"

	"landedcost/internal/classify"
	"landedcost/internal/model"
)

// Density thresholds in lb/ft3. Outside this band the category template is
// assumed wrong and the dimensions are corrected.
const (
	minPlausibleDensity = 1.0
	maxPlausibleDensity = 60.0

	lowDensityScale  = 1.10 // applied to all three dimensions
	highDensityScale = 1.15 // applied to the largest dimension only
)

const cubicInchesPerFoot = 1728.0

type boxSpec struct {
	boxes   int
	l, w, h float64 // inches
}

// boxTables encodes typical carton configurations per (brand, category).
// IKEA ships flat-pack, Wayfair mostly assembled, Generic sits in between.
// Every brand carries all six categories so the pair space is exhaustive.
var boxTables = map[classify.Brand]map[classify.Category]boxSpec{
	classify.BrandIKEA: {
		classify.CategorySectional: {2, 46, 27, 12},
		classify.CategorySofa:      {2, 41, 26, 12},
		classify.CategoryChair:     {1, 31, 22, 20},
		classify.CategoryTable:     {1, 48, 32, 6},
		classify.CategoryBed:       {2, 84, 16, 7},
		classify.CategoryDefault:   {1, 34, 22, 16},
	},
	classify.BrandWayfair: {
		classify.CategorySectional: {2, 60, 35, 30},
		classify.CategorySofa:      {1, 82, 36, 32},
		classify.CategoryChair:     {1, 33, 30, 28},
		classify.CategoryTable:     {1, 55, 34, 8},
		classify.CategoryBed:       {2, 85, 15, 10},
		classify.CategoryDefault:   {1, 36, 24, 18},
	},
	classify.BrandGeneric: {
		classify.CategorySectional: {2, 55, 33, 28},
		classify.CategorySofa:      {1, 80, 36, 30},
		classify.CategoryChair:     {1, 32, 28, 26},
		classify.CategoryTable:     {1, 52, 33, 9},
		classify.CategoryBed:       {2, 84, 16, 9},
		classify.CategoryDefault:   {1, 34, 22, 16},
	},
}

// genericDefault is returned for a nil product. Fixed values, not computed
// from the table, so the degenerate case stays stable even if templates move.
var genericDefault = model.CartonEstimate{
	CubicFeet:  6.9,
	Boxes:      1,
	Dimensions: model.Dimensions{Length: 34, Width: 22, Height: 16},
	Notes:      "no product data; generic default carton",
	Source:     model.CartonSourceEstimated,
}

// Estimate derives a carton estimate from the product's classified brand and
// category, correcting for implausible density when a weight is known. It
// never fails; a nil product yields the generic default estimate.
func Estimate(p *model.ProductDescriptor) model.CartonEstimate {
	if p == nil {
		return genericDefault
	}

	brand, category := classify.Classify(p)
	spec := boxTables[brand][category]

	dims := model.Dimensions{Length: spec.l, Width: spec.w, Height: spec.h}
	cuft := totalCubicFeet(dims, spec.boxes)

	notes := fmt.Sprintf("%s %s: %d box(es) at %gx%gx%g in", brand, category, spec.boxes, dims.Length, dims.Width, dims.Height)
	if spec.boxes > 1 {
		notes += "; multi-box shipment"
	}

	if p.Weight > 0 {
		density := p.Weight / cuft
		switch {
		case density < minPlausibleDensity:
			// Implausibly light: the real box is bigger than the template.
			dims.Length *= lowDensityScale
			dims.Width *= lowDensityScale
			dims.Height *= lowDensityScale
			cuft = totalCubicFeet(dims, spec.boxes)
			notes += fmt.Sprintf("; low density %.2f lb/ft3, scaled all dimensions by %g", density, lowDensityScale)
		case density > maxPlausibleDensity:
			// Implausibly dense: the template is short along its longest axis.
			scaleLargest(&dims, highDensityScale)
			cuft = totalCubicFeet(dims, spec.boxes)
			notes += fmt.Sprintf("; high density %.2f lb/ft3, scaled largest dimension by %g", density, highDensityScale)
		default:
			notes += fmt.Sprintf("; density %.2f lb/ft3 within normal range", density)
		}
	}

	return model.CartonEstimate{
		CubicFeet:  round2(cuft),
		Boxes:      spec.boxes,
		Dimensions: dims,
		Notes:      notes,
		Source:     model.CartonSourceEstimated,
	}
}

func totalCubicFeet(d model.Dimensions, boxes int) float64 {
	cuft := d.Length * d.Width * d.Height / cubicInchesPerFoot
	if boxes > 1 {
		cuft *= float64(boxes)
	}
	return cuft
}

func scaleLargest(d *model.Dimensions, factor float64) {
	switch {
	case d.Length >= d.Width && d.Length >= d.Height:
		d.Length *= factor
	case d.Width >= d.Height:
		d.Width *= factor
	default:
		d.Height *= factor
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
