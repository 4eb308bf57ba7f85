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

// PaymentServicer defines the service methods needed by payment handlers.
// Satisfied by *service.PaymentService; narrow interface for testability.
type PaymentServicer interface {
	Bill(ctx context.Context, pool database.DBTX, businessID uuid.UUID, ticketID string) (*service.BillingSnapshot, error)
	ProcessPayment(ctx context.Context, req service.ProcessPaymentRequest) (*service.BillingSnapshot, error)
	ProcessRefund(ctx context.Context, req service.ProcessRefundRequest) (*service.BillingSnapshot, error)
}

// PaymentHandler handles bill and payment ledger endpoints.
type PaymentHandler struct {
	svc  PaymentServicer
	pool database.DBTX
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServicer, pool database.DBTX) *PaymentHandler {
	return &PaymentHandler{svc: svc, pool: pool}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted inside the orders subrouter: /businesses/{bid}/orders
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{ticketID}/bill", h.Bill)
	r.Get("/{ticketID}/payments", h.ListPayments)
	r.Post("/{ticketID}/payments", h.ProcessPayment)
	r.Post("/{ticketID}/refunds", h.ProcessRefund)
}

// --- Request / Response types ---

type processPaymentRequest struct {
	Amount            string `json:"amount"`
	PaymentMode       string `json:"payment_mode"`
	Status            string `json:"status"`
	TipType           string `json:"tip_type"`
	TipValue          string `json:"tip_value"`
	Comment           string `json:"comment"`
	FailureReason     string `json:"failure_reason"`
	ExistingPaymentID string `json:"existing_payment_id"`
}

type processRefundRequest struct {
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	Mode      string `json:"mode"`
	Comment   string `json:"comment"`
}

type billResponse struct {
	Subtotal        string `json:"subtotal"`
	TotalDiscount   string `json:"total_discount"`
	TaxAmount       string `json:"tax_amount"`
	GratuityAmount  string `json:"gratuity_amount"`
	FeeAmount       string `json:"fee_amount"`
	TotalBill       string `json:"total_bill"`
	PaidAmount      string `json:"paid_amount"`
	RemainingAmount string `json:"remaining_amount"`
}

type paymentResponse struct {
	ID                uuid.UUID  `json:"id"`
	Amount            string     `json:"amount"`
	PaymentMode       string     `json:"payment_mode"`
	Status            string     `json:"status"`
	TipType           *string    `json:"tip_type"`
	TipAmount         string     `json:"tip_amount"`
	RefundedPaymentID *uuid.UUID `json:"refunded_payment_id"`
	PaymentIsRefund   bool       `json:"payment_is_refund"`
	RefundReason      *string    `json:"refund_reason"`
	Comment           *string    `json:"comment"`
	FailureReason     *string    `json:"failure_reason"`
	TotalBillAmount   string     `json:"total_bill_amount"`
	RemainingAmount   string     `json:"remaining_amount"`
	PaidAmountBefore  string     `json:"paid_amount_before"`
	CreatedAt         time.Time  `json:"created_at"`
}

type billingSnapshotResponse struct {
	Order    orderResponse     `json:"order"`
	Bill     billResponse      `json:"bill"`
	Payments []paymentResponse `json:"payments"`
}

func toBillingSnapshotResponse(snap *service.BillingSnapshot) billingSnapshotResponse {
	resp := billingSnapshotResponse{
		Order: toOrderResponse(snap.Order),
		Bill: billResponse{
			Subtotal:        snap.Bill.Subtotal.StringFixed(2),
			TotalDiscount:   snap.Bill.TotalDiscount.StringFixed(2),
			TaxAmount:       snap.Bill.TaxAmount.StringFixed(2),
			GratuityAmount:  snap.Bill.GratuityAmount.StringFixed(2),
			FeeAmount:       snap.Bill.FeeAmount.StringFixed(2),
			TotalBill:       snap.Bill.TotalBill.StringFixed(2),
			PaidAmount:      snap.Bill.PaidAmount.StringFixed(2),
			RemainingAmount: snap.Bill.RemainingAmount.StringFixed(2),
		},
		Payments: make([]paymentResponse, 0, len(snap.Payments)),
	}
	for _, p := range snap.Payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	return resp
}

func toPaymentResponse(p database.PaymentHistory) paymentResponse {
	resp := paymentResponse{
		ID:               p.ID,
		Amount:           money.NumericString(p.Amount),
		PaymentMode:      p.PaymentMode,
		Status:           p.Status,
		TipAmount:        money.NumericString(p.TipAmount),
		PaymentIsRefund:  p.PaymentIsRefund,
		TotalBillAmount:  money.NumericString(p.TotalBillAmount),
		RemainingAmount:  money.NumericString(p.RemainingAmount),
		PaidAmountBefore: money.NumericString(p.PaidAmountBefore),
		CreatedAt:        p.CreatedAt,
	}
	if p.TipType.Valid {
		resp.TipType = &p.TipType.String
	}
	if p.RefundedPaymentID.Valid {
		id := uuid.UUID(p.RefundedPaymentID.Bytes)
		resp.RefundedPaymentID = &id
	}
	if p.RefundReason.Valid {
		resp.RefundReason = &p.RefundReason.String
	}
	if p.Comment.Valid {
		resp.Comment = &p.Comment.String
	}
	if p.FailureReason.Valid {
		resp.FailureReason = &p.FailureReason.String
	}
	return resp
}

// --- Handlers ---

// Bill recomputes and returns the current bill for the ticket.
func (h *PaymentHandler) Bill(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	snap, err := h.svc.Bill(r.Context(), h.pool, businessID, ticketID)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBillingSnapshotResponse(snap))
}

// ListPayments returns the full payment ledger for the ticket.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	snap, err := h.svc.Bill(r.Context(), h.pool, businessID, ticketID)
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	payments := make([]paymentResponse, 0, len(snap.Payments))
	for _, p := range snap.Payments {
		payments = append(payments, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, payments)
}

// ProcessPayment records a payment attempt or mutates an existing one.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := h.svc.ProcessPayment(r.Context(), service.ProcessPaymentRequest{
		BusinessID:        businessID,
		TicketID:          ticketID,
		EmployeeID:        claims.EmployeeID,
		Amount:            req.Amount,
		PaymentMode:       req.PaymentMode,
		Status:            req.Status,
		TipType:           req.TipType,
		TipValue:          req.TipValue,
		Comment:           req.Comment,
		FailureReason:     req.FailureReason,
		ExistingPaymentID: req.ExistingPaymentID,
	})
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBillingSnapshotResponse(snap))
}

// ProcessRefund appends a refund row against a completed payment.
func (h *PaymentHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req processRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_id"})
		return
	}

	snap, err := h.svc.ProcessRefund(r.Context(), service.ProcessRefundRequest{
		BusinessID: businessID,
		TicketID:   ticketID,
		EmployeeID: claims.EmployeeID,
		PaymentID:  paymentID,
		Amount:     req.Amount,
		Reason:     req.Reason,
		Mode:       req.Mode,
		Comment:    req.Comment,
	})
	if err != nil {
		h.writePaymentError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBillingSnapshotResponse(snap))
}

// --- Helpers ---

func (h *PaymentHandler) writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrCheckNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotRefundable),
		errors.Is(err, service.ErrAlreadyFullyRefunded),
		errors.Is(err, service.ErrRefundExceedsAvailable):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMode),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrInvalidTipType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: payment operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
