package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"landedcost/internal/db"
)

func TestCreateAndFetchQuoteIntegration(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
		return
	}

	pool, err := db.NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	defer pool.Close()

	// Ensure quotes table exists
	_, _ = pool.Exec(context.Background(), `
        CREATE TABLE IF NOT EXISTS quotes (
            id uuid PRIMARY KEY,
            source text NOT NULL,
            product jsonb NOT NULL,
            result jsonb NOT NULL,
            duty_pct numeric NOT NULL,
            duty_source text NOT NULL,
            total numeric NOT NULL,
            fallback_used boolean NOT NULL,
            created_at timestamptz NOT NULL
        )
    `)

	h := New(pool)

	payload := map[string]any{
		"name":  "IKEA KIVIK sectional sofa",
		"brand": "IKEA",
		"price": 1000,
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		QuoteID   string `json:"quote_id"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if created.QuoteID == "" || created.CreatedAt == "" {
		t.Fatalf("unexpected response: %+v", created)
	}

	// Fetch it back
	req2 := httptest.NewRequest(http.MethodGet, "/quotes/"+created.QuoteID, nil)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d; body=%s", rr2.Code, rr2.Body.String())
	}
	var fetched struct {
		QuoteID string          `json:"quote_id"`
		Source  string          `json:"source"`
		Product json.RawMessage `json:"product"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(rr2.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if fetched.QuoteID != created.QuoteID || fetched.Source != "api" {
		t.Fatalf("unexpected quote: %+v", fetched)
	}
	if len(fetched.Product) == 0 || len(fetched.Result) == 0 {
		t.Fatalf("expected stored product and result JSON")
	}

	// Clean up
	_, _ = pool.Exec(context.Background(), `DELETE FROM quotes WHERE id = $1`, created.QuoteID)
}

func TestGetQuote_NotFoundIntegration(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
		return
	}

	pool, err := db.NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	defer pool.Close()

	h := New(pool)
	req := httptest.NewRequest(http.MethodGet, "/quotes/00000000-0000-0000-0000-000000000000", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d; body=%s", rr.Code, rr.Body.String())
	}
}
