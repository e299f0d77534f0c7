package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "time"

    "landedcost/internal/config"
    "landedcost/internal/db"
    "landedcost/internal/duty"
    "landedcost/internal/observability"
    "landedcost/internal/quote"
    "landedcost/internal/server"

    "github.com/jackc/pgx/v5/pgxpool"
)

func main() {
    cfg := config.Load()

    // Quote persistence is optional; without a database the API still serves
    // stateless estimates.
    var pool *pgxpool.Pool
    if cfg.DatabaseURL != "" {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        p, err := db.NewPool(ctx, cfg.DatabaseURL)
        if err != nil {
            log.Fatalf("failed to connect db: %v", err)
        }
        defer p.Close()
        // Verify connectivity proactively
        if err := p.Ping(ctx); err != nil {
            log.Fatalf("database ping failed: %v", err)
        }
        pool = p
    } else {
        log.Printf("DATABASE_URL not set; quote persistence disabled")
    }

    observability.Start(cfg.MetricsPort)

    // Load the tariff table up front so a bad rules file shows in the logs
    // at startup instead of on the first quote.
    duty.Preload(cfg.TariffRulesPath)

    // Select pricing policy from config
    policy := cfg.PricingPolicy
    est := quote.NewByName(policy, cfg.PricingParams())
    r := server.NewWithEstimator(pool, est)

    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           r,
        ReadTimeout:       10 * time.Second,
        ReadHeaderTimeout: 10 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    if policy == "" {
        policy = quote.PolicyRetail
    }
    log.Printf("api listening on :%s (PRICING_POLICY=%s)", cfg.Port, policy)
    if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Println("server error:", err)
        os.Exit(1)
    }
}
