package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"agrimarket-backend/internal/analytics"
	"agrimarket-backend/internal/logger"
	"agrimarket-backend/internal/report"
	"agrimarket-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Handler serves the dashboard, transaction and quote endpoints
type Handler struct {
	dashboard service.DashboardService
	quotes    service.QuoteService
	validate  *validator.Validate
	now       func() time.Time
}

func NewHandler(dashboard service.DashboardService, quotes service.QuoteService, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		dashboard: dashboard,
		quotes:    quotes,
		validate:  v,
		now:       now,
	}
}

// NewRouter wires the routes. Everything under /api/v1 requires a viewer.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(RequireViewer)
	api.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions/statement", h.DownloadStatement).Methods(http.MethodGet)
	api.HandleFunc("/quotes", h.CreateQuote).Methods(http.MethodPost)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, _ := ViewerFromContext(r.Context())

	d, err := h.dashboard.GetDashboard(r.Context(), viewer, h.now())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	list, ok := h.transactionList(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) DownloadStatement(w http.ResponseWriter, r *http.Request) {
	list, ok := h.transactionList(w, r)
	if !ok {
		return
	}
	viewer, _ := ViewerFromContext(r.Context())

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=statement-%d-%s.xlsx", viewer.ID, h.now().Format("20060102")))
	if err := report.WriteStatement(w, list.Summary, list.Transactions); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write statement", "error", err)
		http.Error(w, "Failed to write file", http.StatusInternalServerError)
	}
}

func (h *Handler) transactionList(w http.ResponseWriter, r *http.Request) (*service.TransactionList, bool) {
	viewer, _ := ViewerFromContext(r.Context())

	filter, ok := analytics.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeError(w, http.StatusBadRequest, "filter must be one of all, buy, rent")
		return nil, false
	}

	list, err := h.dashboard.ListTransactions(r.Context(), viewer, filter)
	if err != nil {
		h.serviceError(w, r, err)
		return nil, false
	}
	return list, true
}

// CreateQuote answers 200 with a priced quote, or 422 with the failed
// validation when the dates are not acceptable.
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": processValidationErrors(verrs),
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.quotes.QuoteRental(r.Context(), req, h.now())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !result.Validation.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidViewer):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAssetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedAsset):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.FromContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// processValidationErrors maps each failing field to the rule it broke
func processValidationErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		out[ve.Field()] = ve.Tag()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
