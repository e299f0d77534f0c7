package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"landedcost/internal/pricing"
)

type Config struct {
	Port            string
	DatabaseURL     string
	MetricsPort     string
	PricingPolicy   string
	TariffRulesPath string

	FreightRatePerCuFt  float64
	CustomsFeePerVendor float64
	HandlingFee         float64
	OceanFreightMin     float64
	CardFeeRate         float64
	MarginRate          float64
	MarginPct           float64
	WharfagePct         float64
	ApplyNJTax          bool
	NJTaxRatePct        float64
}

func Load() Config {
	// Pick up a .env when present; absence is fine.
	_ = godotenv.Load()

	d := pricing.DefaultParams()
	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		PricingPolicy:   os.Getenv("PRICING_POLICY"),
		TariffRulesPath: getEnv("TARIFF_RULES_PATH", "config/tariff_rules.json"),

		FreightRatePerCuFt:  getFloat("FREIGHT_RATE_PER_CUFT", d.FreightRatePerCuFt),
		CustomsFeePerVendor: getFloat("CUSTOMS_CLEAR_FEE_PER_VENDOR", d.CustomsFeePerVendor),
		HandlingFee:         getFloat("DEFAULT_HANDLING_FEE", d.HandlingFee),
		OceanFreightMin:     getFloat("OCEAN_FREIGHT_MIN", d.OceanFreightMin),
		CardFeeRate:         getFloat("CARD_FEE_RATE", d.CardFeeRate),
		MarginRate:          getFloat("MARGIN_RATE", d.MarginRate),
		MarginPct:           getFloat("MARGIN_PCT", d.MarginPct),
		WharfagePct:         getFloat("WHARFAGE_PCT", d.WharfagePct),
		ApplyNJTax:          getBool("APPLY_NJ_TAX", d.ApplyNJTax),
		NJTaxRatePct:        getFloat("NJ_TAX_RATE_PCT", d.NJTaxRatePct),
	}
}

// PricingParams maps the configured rates onto the pricing parameter set.
func (c Config) PricingParams() pricing.Params {
	return pricing.Params{
		FreightRatePerCuFt:  c.FreightRatePerCuFt,
		CustomsFeePerVendor: c.CustomsFeePerVendor,
		HandlingFee:         c.HandlingFee,
		OceanFreightMin:     c.OceanFreightMin,
		CardFeeRate:         c.CardFeeRate,
		MarginRate:          c.MarginRate,
		MarginPct:           c.MarginPct,
		WharfagePct:         c.WharfagePct,
		ApplyNJTax:          c.ApplyNJTax,
		NJTaxRatePct:        c.NJTaxRatePct,
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// getFloat falls back to the default on malformed values; a bad rate must
// never abort a quote.
func getFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return d
	}
	return f
}

func getBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}
