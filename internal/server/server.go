package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"landedcost/internal/model"
	"landedcost/internal/observability"
	"landedcost/internal/pricing"
	"landedcost/internal/quote"
)

type Server struct {
	db  *pgxpool.Pool
	est quote.Estimator
}

func New(db *pgxpool.Pool) http.Handler {
	return NewWithEstimator(db, nil)
}

// NewWithEstimator allows injecting a custom Estimator implementation.
func NewWithEstimator(db *pgxpool.Pool, est quote.Estimator) http.Handler {
	if est == nil {
		est = quote.NewByName("", pricing.DefaultParams())
	}
	s := &Server{db: db, est: est}
	r := chi.NewRouter()
	// Observability: Request ID and basic logger
	r.Use(requestIDMiddleware)
	r.Use(middleware.Logger)
	r.Get("/healthz", s.handleHealth)
	r.Post("/estimate", s.handleEstimate)
	r.Post("/quotes", s.handleCreateQuote)
	r.Get("/quotes/{id}", s.handleGetQuote)
	r.Post("/ingest/{source}", s.handleIngest)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Estimate: stateless quote computation.

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var p model.ProductDescriptor
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	policy := r.URL.Query().Get("policy")
	res := s.est.Estimate(&p, policy)
	recordQuoteMetrics(res)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Quotes: computed and persisted for later retrieval.

type QuoteCreateResponse struct {
	QuoteID   string       `json:"quote_id,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
	Result    quote.Result `json:"result"`
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeErrorJSON(w, http.StatusServiceUnavailable, "db_unavailable", "quote persistence is not configured")
		return
	}
	var p model.ProductDescriptor
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	policy := r.URL.Query().Get("policy")
	res := s.est.Estimate(&p, policy)
	recordQuoteMetrics(res)

	id, now, err := s.insertQuote(r, "api", &p, res)
	if err != nil {
		log.Println("insert quote error:", err)
		writeErrorJSON(w, http.StatusInternalServerError, "db_error", "failed to create quote")
		return
	}
	resp := QuoteCreateResponse{
		QuoteID:   id.String(),
		CreatedAt: now.Format(time.RFC3339),
		Result:    res,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type QuoteResponse struct {
	QuoteID   string          `json:"quote_id"`
	Source    string          `json:"source"`
	Product   json.RawMessage `json:"product"`
	Result    json.RawMessage `json:"result"`
	CreatedAt string          `json:"created_at"`
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "quote id must be a uuid")
		return
	}
	if s.db == nil {
		writeErrorJSON(w, http.StatusServiceUnavailable, "db_unavailable", "quote persistence is not configured")
		return
	}
	ctx := r.Context()
	var (
		source    string
		product   []byte
		result    []byte
		createdAt time.Time
	)
	err = s.db.QueryRow(ctx, `
        SELECT source, product, result, created_at
        FROM quotes
        WHERE id = $1
    `, id).Scan(&source, &product, &result, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "quote not found")
			return
		}
		writeErrorJSON(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	resp := QuoteResponse{
		QuoteID:   id.String(),
		Source:    source,
		Product:   json.RawMessage(product),
		Result:    json.RawMessage(result),
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// insertQuote persists one computed quote and returns its id.
func (s *Server) insertQuote(r *http.Request, source string, p *model.ProductDescriptor, res quote.Result) (uuid.UUID, time.Time, error) {
	productJSON, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	id := uuid.New()
	now := time.Now().UTC()
	_, err = s.db.Exec(r.Context(), `
        INSERT INTO quotes (
            id, source, product, result,
            duty_pct, duty_source, total, fallback_used, created_at
        ) VALUES (
            $1, $2, $3::jsonb, $4::jsonb,
            $5, $6, $7, $8, $9
        )
    `,
		id,
		source,
		string(productJSON),
		string(resultJSON),
		res.Duty.DutyPct,
		string(res.Duty.Source),
		res.Guardrail.AdjustedTotal,
		res.Guardrail.FallbackUsed,
		now,
	)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return id, now, nil
}

// handleIngest accepts HMAC-signed scraped-product payloads from collector
// sources and turns them into quotes. Secrets come from env, one per source.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if strings.TrimSpace(source) == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "source required")
		return
	}
	var secretEnv string
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "wayfair":
		secretEnv = "WAYFAIR_WEBHOOK_SECRET"
	case "ikea":
		secretEnv = "IKEA_WEBHOOK_SECRET"
	case "generic":
		secretEnv = "GENERIC_WEBHOOK_SECRET"
	default:
		writeErrorJSON(w, http.StatusNotFound, "unsupported_source", "unsupported source")
		return
	}
	secret := os.Getenv(secretEnv)
	if strings.TrimSpace(secret) == "" {
		writeErrorJSON(w, http.StatusUnauthorized, "secret_not_configured", "ingest secret not configured")
		return
	}

	// Read raw body for signature verification
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "read_error", "read error")
		return
	}
	sigHeader := r.Header.Get("X-Signature")
	sigHeader = strings.TrimSpace(sigHeader)
	sigHeader = strings.TrimPrefix(sigHeader, "sha256=")
	if sigHeader == "" {
		writeErrorJSON(w, http.StatusUnauthorized, "missing_signature", "missing signature")
		return
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	provided, err := hex.DecodeString(sigHeader)
	if err != nil {
		writeErrorJSON(w, http.StatusUnauthorized, "invalid_signature_format", "invalid signature format")
		return
	}
	if !hmac.Equal([]byte(expected), []byte(hex.EncodeToString(provided))) {
		writeErrorJSON(w, http.StatusUnauthorized, "signature_mismatch", "signature mismatch")
		return
	}

	// Normalize scraper payload into a product descriptor
	p, nerr := NewNormalizer(source).Normalize(source, body)
	if nerr != nil {
		if errors.Is(nerr, ErrMissingName) {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "product name required")
		} else {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		}
		return
	}

	res := s.est.Estimate(p, "")
	recordQuoteMetrics(res)

	resp := QuoteCreateResponse{Result: res}
	if s.db != nil {
		id, now, err := s.insertQuote(r, strings.ToLower(source), p, res)
		if err != nil {
			log.Println("insert quote error:", err)
			writeErrorJSON(w, http.StatusInternalServerError, "db_error", "failed to persist quote")
			return
		}
		resp.QuoteID = id.String()
		resp.CreatedAt = now.Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func recordQuoteMetrics(res quote.Result) {
	observability.QuotesTotal.Inc()
	observability.DutyResolutionsTotal.WithLabelValues(string(res.Duty.Source)).Inc()
	if res.Guardrail.FallbackUsed {
		observability.GuardrailFallbackTotal.Inc()
	}
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}
