package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/middleware"
	"github.com/sajipos/api/internal/money"
	"github.com/sajipos/api/internal/service"
)

// EodServicer defines the service methods needed by end-of-day handlers.
// Satisfied by *service.EodService; narrow interface for testability.
type EodServicer interface {
	GetEndOfDay(ctx context.Context, pool database.DBTX, businessID uuid.UUID, target time.Time) (*service.EodStatus, error)
	MakeEndOfDay(ctx context.Context, businessID uuid.UUID, target time.Time, employeeID uuid.UUID, notes string) (*database.EndOfDay, error)
}

// EodHandler handles end-of-day closure endpoints.
type EodHandler struct {
	svc  EodServicer
	pool database.DBTX
}

// NewEodHandler creates a new EodHandler.
func NewEodHandler(svc EodServicer, pool database.DBTX) *EodHandler {
	return &EodHandler{svc: svc, pool: pool}
}

// RegisterRoutes registers end-of-day endpoints on the given Chi router.
// Expected to be mounted inside a business-scoped subrouter: /businesses/{bid}/eod
func (h *EodHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Status)
	r.Post("/", h.Close)
}

// --- Request / Response types ---

type closeEodRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type eodResponse struct {
	ID          uuid.UUID `json:"id"`
	EodDate     string    `json:"eod_date"`
	Status      string    `json:"status"`
	TotalSales  string    `json:"total_sales"`
	TotalOrders int32     `json:"total_orders"`
	CompletedBy uuid.UUID `json:"completed_by"`
	CompletedAt time.Time `json:"completed_at"`
	Notes       *string   `json:"notes"`
}

type eodStatusResponse struct {
	PendingDates []string        `json:"pending_dates"`
	GapDates     []string        `json:"gap_dates"`
	ActiveOrders []orderResponse `json:"active_orders"`
	Completed    *eodResponse    `json:"completed"`
}

func toEodResponse(eod database.EndOfDay) eodResponse {
	resp := eodResponse{
		ID:          eod.ID,
		EodDate:     eod.EodDate.Time.Format("2006-01-02"),
		Status:      eod.Status,
		TotalSales:  money.NumericString(eod.TotalSales),
		TotalOrders: eod.TotalOrders,
		CompletedBy: eod.CompletedBy,
		CompletedAt: eod.CompletedAt,
	}
	if eod.Notes.Valid {
		resp.Notes = &eod.Notes.String
	}
	return resp
}

// --- Handlers ---

// Status reports the closure status for a date: pending prior dates, gap
// dates, active orders, and the completed row if the date is already closed.
func (h *EodHandler) Status(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	target, ok := parseEodDate(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	status, err := h.svc.GetEndOfDay(r.Context(), h.pool, businessID, target)
	if err != nil {
		h.writeEodError(w, err)
		return
	}

	resp := eodStatusResponse{
		PendingDates: formatDates(status.PendingDates),
		GapDates:     formatDates(status.GapDates),
		ActiveOrders: make([]orderResponse, 0, len(status.ActiveOrders)),
	}
	for _, o := range status.ActiveOrders {
		resp.ActiveOrders = append(resp.ActiveOrders, toOrderResponse(o))
	}
	if status.Completed != nil {
		eod := toEodResponse(*status.Completed)
		resp.Completed = &eod
	}

	writeJSON(w, http.StatusOK, resp)
}

// Close performs end-of-day closure for the requested date.
func (h *EodHandler) Close(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req closeEodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	target, ok := parseEodDate(w, req.Date)
	if !ok {
		return
	}

	eod, err := h.svc.MakeEndOfDay(r.Context(), businessID, target, claims.EmployeeID, req.Notes)
	if err != nil {
		h.writeEodError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEodResponse(*eod))
}

// --- Helpers ---

// parseEodDate parses a YYYY-MM-DD date string, defaulting to today.
// Dates are parsed in UTC to match how pgtype.Date values scan.
func parseEodDate(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	target, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return target, true
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func (h *EodHandler) writeEodError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPendingPriorDates),
		errors.Is(err, service.ErrActiveOrdersExist):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrFutureEodDate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: end of day operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
