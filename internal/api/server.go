// Package api exposes classification, sync and budget operations over HTTP.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"fjacquet/finance-sync/internal/budget"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

// Classifier classifies one transaction and lists the known categories.
type Classifier interface {
	Classify(description, merchant string, amount *decimal.Decimal) models.ClassificationResult
	ListCategories() []models.CategoryInfo
}

// AccountSyncer runs a manual sync of one account.
type AccountSyncer interface {
	SyncAccount(ctx context.Context, accountID, credential string, forceFullSync bool) (int, error)
}

// BudgetReconciler reconciles a user's budgets.
type BudgetReconciler interface {
	Reconcile(ctx context.Context, userID string) (budget.Result, error)
}

// CSVImporter imports a CSV file into an account.
type CSVImporter interface {
	ImportCSV(ctx context.Context, accountID string, r io.Reader) (importer.Result, error)
}

// Handler serves the HTTP API. Sync and import routes answer 503 when their
// collaborator is nil.
type Handler struct {
	classifier        Classifier
	syncer            AccountSyncer
	budgets           BudgetReconciler
	importer          CSVImporter
	logger            logging.Logger
	defaultCredential string
	timeout           time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithSyncer enables POST /accounts/{id}/sync.
func WithSyncer(s AccountSyncer) Option {
	return func(h *Handler) { h.syncer = s }
}

// WithBudgets enables POST /users/{id}/budgets/sync.
func WithBudgets(b BudgetReconciler) Option {
	return func(h *Handler) { h.budgets = b }
}

// WithImporter enables POST /accounts/{id}/import.
func WithImporter(i CSVImporter) Option {
	return func(h *Handler) { h.importer = i }
}

// WithDefaultCredential is used by sync requests that carry no credential.
func WithDefaultCredential(credential string) Option {
	return func(h *Handler) { h.defaultCredential = credential }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(c Classifier, logger logging.Logger, opts ...Option) *Handler {
	h := &Handler{
		classifier: c,
		logger:     logging.OrDefault(logger),
		timeout:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the routes of the API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.timeout))

	r.Post("/classify", h.Classify)
	r.Get("/categories", h.Categories)

	r.Route("/accounts/{id}", func(r chi.Router) {
		r.Post("/sync", h.SyncAccount)
		r.Post("/import", h.Import)
	})
	r.Post("/users/{id}/budgets/sync", h.SyncBudgets)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// requestLogger logs one line per request through logger.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				logging.Field{Key: "method", Value: r.Method},
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: logging.FieldStatus, Value: ww.Status()},
				logging.Field{Key: "request_id", Value: middleware.GetReqID(r.Context())},
				logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
		})
	}
}
