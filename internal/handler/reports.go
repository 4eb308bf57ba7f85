package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/money"
	"github.com/shopspring/decimal"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	ListCompletedOrdersInRange(ctx context.Context, arg database.ListCompletedOrdersInRangeParams) ([]database.Order, error)
	GetPaymentModeSummary(ctx context.Context, arg database.GetPaymentModeSummaryParams) ([]database.GetPaymentModeSummaryRow, error)
	GetEndOfDay(ctx context.Context, arg database.GetEndOfDayParams) (database.EndOfDay, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted inside a business-scoped subrouter: /businesses/{bid}/reports
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-summary", h.DailySummary)
}

// --- Response types ---

type paymentModeSummaryResponse struct {
	PaymentMode     string `json:"payment_mode"`
	PaymentCount    int64  `json:"payment_count"`
	CollectedAmount string `json:"collected_amount"`
	RefundedAmount  string `json:"refunded_amount"`
	TipAmount       string `json:"tip_amount"`
	NetAmount       string `json:"net_amount"`
}

type dailySummaryResponse struct {
	Date            string                       `json:"date"`
	CompletedOrders int                          `json:"completed_orders"`
	NetCollected    string                       `json:"net_collected"`
	TotalTips       string                       `json:"total_tips"`
	ByMode          []paymentModeSummaryResponse `json:"by_mode"`
	Tickets         []orderResponse              `json:"tickets"`
	EndOfDay        *eodResponse                 `json:"end_of_day"`
}

// --- Handlers ---

// DailySummary reports the day's completed tickets and ledger totals by
// payment mode. Totals come from the payment ledger, not the orders, so
// refunds taken the same day are already netted out.
func (h *ReportsHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	target, ok := parseEodDate(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}
	dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	orders, err := h.store.ListCompletedOrdersInRange(r.Context(), database.ListCompletedOrdersInRangeParams{
		BusinessID: businessID,
		StartAt:    dayStart,
		EndAt:      dayEnd,
	})
	if err != nil {
		log.Printf("ERROR: failed to list completed orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	modes, err := h.store.GetPaymentModeSummary(r.Context(), database.GetPaymentModeSummaryParams{
		BusinessID: businessID,
		StartAt:    dayStart,
		EndAt:      dayEnd,
	})
	if err != nil {
		log.Printf("ERROR: failed to summarize payment modes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dailySummaryResponse{
		Date:            dayStart.Format("2006-01-02"),
		CompletedOrders: len(orders),
		ByMode:          make([]paymentModeSummaryResponse, 0, len(modes)),
		Tickets:         make([]orderResponse, 0, len(orders)),
	}

	var netCollected, totalTips decimal.Decimal
	for _, mode := range modes {
		collected := money.FromNumeric(mode.CollectedAmount)
		refunded := money.FromNumeric(mode.RefundedAmount)
		tips := money.FromNumeric(mode.TipAmount)
		net := collected.Sub(refunded)
		netCollected = netCollected.Add(net)
		totalTips = totalTips.Add(tips)
		resp.ByMode = append(resp.ByMode, paymentModeSummaryResponse{
			PaymentMode:     mode.PaymentMode,
			PaymentCount:    mode.PaymentCount,
			CollectedAmount: collected.StringFixed(2),
			RefundedAmount:  refunded.StringFixed(2),
			TipAmount:       tips.StringFixed(2),
			NetAmount:       net.StringFixed(2),
		})
	}
	resp.NetCollected = netCollected.StringFixed(2)
	resp.TotalTips = totalTips.StringFixed(2)

	for _, o := range orders {
		resp.Tickets = append(resp.Tickets, toOrderResponse(o))
	}

	eod, err := h.store.GetEndOfDay(r.Context(), database.GetEndOfDayParams{
		BusinessID: businessID,
		EodDate:    pgtype.Date{Time: dayStart, Valid: true},
	})
	switch {
	case err == nil:
		e := toEodResponse(eod)
		resp.EndOfDay = &e
	case errors.Is(err, pgx.ErrNoRows):
		// Day not closed yet; summary still useful mid-shift.
	default:
		log.Printf("ERROR: failed to load end of day row: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
