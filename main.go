package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "nhatro-cloud/internal/api/http"
	"nhatro-cloud/internal/audit"
	"nhatro-cloud/internal/auth"
	invoiceapp "nhatro-cloud/internal/invoice/application"
	invoicerepo "nhatro-cloud/internal/invoice/infrastructure/postgres"
	invoiceinterfaces "nhatro-cloud/internal/invoice/interfaces"
	"nhatro-cloud/internal/observability/metrics"
	readingapp "nhatro-cloud/internal/reading/application"
	readingrepo "nhatro-cloud/internal/reading/infrastructure/postgres"
	readinginterfaces "nhatro-cloud/internal/reading/interfaces"
	roomapp "nhatro-cloud/internal/room/application"
	roomrepo "nhatro-cloud/internal/room/infrastructure/postgres"
	roominterfaces "nhatro-cloud/internal/room/interfaces"
	settingsrepo "nhatro-cloud/internal/settings/infrastructure/postgres"
	settingsinterfaces "nhatro-cloud/internal/settings/interfaces"
	tenantapp "nhatro-cloud/internal/tenant/application"
	tenantrepo "nhatro-cloud/internal/tenant/infrastructure/postgres"
	tenantinterfaces "nhatro-cloud/internal/tenant/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	billingCfg, err := invoiceapp.LoadBillingConfig()
	if err != nil {
		logger.Fatalf("billing config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	roomStore := roomrepo.NewRoomRepository(db)
	tenantStore := tenantrepo.NewTenantRepository(db)
	settingsStore := settingsrepo.NewSettingsRepository(db)
	readingStore := readingrepo.NewReadingRepository(db)
	invoiceStore := invoicerepo.NewInvoiceRepository(db)

	clock := systemClock{}

	roomService, err := roomapp.NewRoomService(roomStore, clock)
	if err != nil {
		logger.Fatalf("room service error: %v", err)
	}
	tenantService, err := tenantapp.NewTenantService(tenantStore, clock)
	if err != nil {
		logger.Fatalf("tenant service error: %v", err)
	}
	readingService, err := readingapp.NewReadingService(readingStore, roomStore, clock)
	if err != nil {
		logger.Fatalf("reading service error: %v", err)
	}
	generator, err := invoiceapp.NewGenerator(roomStore, readingStore, settingsStore, invoiceStore, billingCfg.DueDay, clock)
	if err != nil {
		logger.Fatalf("invoice generator error: %v", err)
	}
	lifecycle, err := invoiceapp.NewLifecycleService(invoiceStore, clock)
	if err != nil {
		logger.Fatalf("invoice lifecycle error: %v", err)
	}
	sweeper, err := invoiceapp.NewOverdueSweeper(invoiceStore, clock)
	if err != nil {
		logger.Fatalf("overdue sweeper error: %v", err)
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for tick := range ticker.C {
			flipped, err := sweeper.Tick(context.Background(), tick.UTC())
			if err != nil {
				logger.Printf("overdue sweep error: %v", err)
				continue
			}
			if flipped > 0 {
				logger.Printf("overdue sweep: %d invoices flipped", flipped)
			}
		}
	}()

	roomHandler, err := roominterfaces.NewRoomHandler(roomService, auditRepo)
	if err != nil {
		logger.Fatalf("room handler error: %v", err)
	}
	tenantHandler, err := tenantinterfaces.NewTenantHandler(tenantService, auditRepo)
	if err != nil {
		logger.Fatalf("tenant handler error: %v", err)
	}
	readingHandler, err := readinginterfaces.NewReadingHandler(readingService, auditRepo)
	if err != nil {
		logger.Fatalf("reading handler error: %v", err)
	}
	settingsHandler, err := settingsinterfaces.NewSettingsHandler(settingsStore, auditRepo)
	if err != nil {
		logger.Fatalf("settings handler error: %v", err)
	}
	invoiceHandler, err := invoiceinterfaces.NewInvoiceHandler(generator, lifecycle, billingCfg, auditRepo)
	if err != nil {
		logger.Fatalf("invoice handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/rooms", roomHandler)
	mux.Handle("/api/v1/rooms/", roomHandler)
	mux.Handle("/api/v1/tenants", tenantHandler)
	mux.Handle("/api/v1/tenants/", tenantHandler)
	mux.Handle("/api/v1/settings", settingsHandler)
	mux.Handle("/api/v1/readings", readingHandler)
	mux.Handle("/api/v1/readings/", readingHandler)
	mux.Handle("/api/v1/invoices", invoiceHandler)
	mux.Handle("/api/v1/invoices/", invoiceHandler)
	mux.Handle("/api/v1/invoices/generate-month", invoiceHandler)
	mux.Handle("/api/v1/exports/invoices.xlsx", invoiceinterfaces.NewExportInvoicesXLSXHandler(lifecycle))
	mux.Handle("/api/v1/dashboard/stats", apihttp.NewStatsHandler(db))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
