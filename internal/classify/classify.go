// Package classify normalizes free-text product fields into the (brand,
// category) pair that selects packaging heuristics.
package classify

import (
	"regexp"
	"strings"

	"landedcost/internal/model"
)

// Brand is a normalized retailer/manufacturer bucket.
type Brand string

// Known brands, checked in this priority order.
const (
	BrandIKEA    Brand = "IKEA"
	BrandWayfair Brand = "Wayfair"
	BrandGeneric Brand = "Generic"
)

// Category is a normalized furniture category bucket.
type Category string

// Known categories, checked in this priority order. First match wins;
// there is no combination logic.
const (
	CategorySectional Category = "sectional"
	CategorySofa      Category = "sofa"
	CategoryChair     Category = "chair"
	CategoryTable     Category = "table"
	CategoryBed       Category = "bed"
	CategoryDefault   Category = "default"
)

var categoryPatterns = []struct {
	category Category
	re       *regexp.Regexp
}{
	{CategorySectional, regexp.MustCompile(`sectional|modular sofa`)},
	{CategorySofa, regexp.MustCompile(`sofa|couch|loveseat|futon|settee`)},
	{CategoryChair, regexp.MustCompile(`chair|recliner|stool|bench|ottoman`)},
	{CategoryTable, regexp.MustCompile(`table|desk|console|nightstand`)},
	{CategoryBed, regexp.MustCompile(`bed|headboard|mattress`)},
}

// Classify maps a product onto a (brand, category) pair. It always returns a
// value; absent or unmatched input yields Generic/default.
func Classify(p *model.ProductDescriptor) (Brand, Category) {
	if p == nil {
		return BrandGeneric, CategoryDefault
	}
	return classifyBrand(p), classifyCategory(p)
}

func classifyBrand(p *model.ProductDescriptor) Brand {
	hay := strings.ToLower(p.Brand + " " + p.Name + " " + p.URL + " " + p.Retailer)
	switch {
	case strings.Contains(hay, "ikea"):
		return BrandIKEA
	case strings.Contains(hay, "wayfair"):
		return BrandWayfair
	default:
		return BrandGeneric
	}
}

func classifyCategory(p *model.ProductDescriptor) Category {
	hay := strings.ToLower(p.Name + " " + p.Category + " " + strings.Join(p.Breadcrumbs, " "))
	for _, cp := range categoryPatterns {
		if cp.re.MatchString(hay) {
			return cp.category
		}
	}
	return CategoryDefault
}
