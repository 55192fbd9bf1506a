package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/finances-service/internal/middleware"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/Dan9191/finances-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// FinancesService is the business layer used by the handlers
type FinancesService interface {
	GetFinancesOverview(ctx context.Context, ownerID string) (*models.FinancesOverview, error)
	GetRecentPayments(ctx context.Context, ownerID string, limit int) ([]models.RentPaymentRecord, error)
	GetMonthlyComparison(ctx context.Context, ownerID string) (*models.MonthlyComparison, error)
}

// Pinger checks the backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc FinancesService
	db  Pinger
	log *logrus.Logger
}

func NewHandler(svc FinancesService, db Pinger, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, db: db, log: log}
}

// overviewResponse marks an overview that was replaced by the empty one after a failure
type overviewResponse struct {
	*models.FinancesOverview
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

const degradedHeader = "X-Finances-Degraded"

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return ownerID, ok
}

// Health reports whether the service and its database are reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetOverview handles the finances hub overview.
// A backend failure still answers 200 with the empty overview, flagged as degraded.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	overview, err := h.svc.GetFinancesOverview(r.Context(), ownerID)
	resp := overviewResponse{FinancesOverview: overview}
	if err != nil {
		resp.Degraded = true
		resp.Error = "finances data is temporarily unavailable"
		w.Header().Set(degradedHeader, "true")
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetRecentPayments handles the recent payments table, as JSON or as an XML statement
func (h *Handler) GetRecentPayments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.svc.GetRecentPayments(r.Context(), ownerID, limit)
	if err != nil {
		w.Header().Set(degradedHeader, "true")
	}

	if r.URL.Query().Get("format") == "xml" {
		body, err := utils.BuildPaymentStatement(ownerID, records, time.Now())
		if err != nil {
			h.log.Errorf("Failed to build payment statement: %v", err)
			http.Error(w, "Failed to build statement", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="payments.xml"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.log.Errorf("Failed to write payment statement: %v", err)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

// GetComparison handles the current vs previous month comparison
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}
	cmp, err := h.svc.GetMonthlyComparison(r.Context(), ownerID)
	if err != nil {
		w.Header().Set(degradedHeader, "true")
	}
	h.writeJSON(w, http.StatusOK, cmp)
}
