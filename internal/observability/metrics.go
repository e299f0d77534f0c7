package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quotes_total",
			Help: "Quotes computed",
		},
	)
	GuardrailFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guardrail_fallback_total",
			Help: "Quotes corrected by the multiplier guardrail",
		},
	)
	DutyResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duty_resolutions_total",
			Help: "Duty resolutions by rule source",
		},
		[]string{"source"},
	)
)

func Start(port string) {
	prometheus.MustRegister(QuotesTotal, GuardrailFallbackTotal, DutyResolutionsTotal)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Println("metrics listener error:", err)
		}
	}()
}
