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
	"github.com/sajipos/api/internal/ws"
)

// TableServicer defines the service methods needed by table handlers.
// Satisfied by *service.TableService; narrow interface for testability.
type TableServicer interface {
	ReserveTable(ctx context.Context, req service.ReserveTableRequest) (*service.ReserveTableResult, error)
	ResumeOrder(ctx context.Context, businessID uuid.UUID, ticketID string, employeeID uuid.UUID) (*service.ResumeOrderResult, error)
	ChangeTable(ctx context.Context, businessID uuid.UUID, ticketID string, newTableID uuid.UUID) (*database.Order, error)
	ReplaceTable(ctx context.Context, businessID uuid.UUID, ticketID string, oldTableID, newTableID uuid.UUID) (*database.Order, error)
	MergeTables(ctx context.Context, businessID uuid.UUID, ticketID string, tableIDs []uuid.UUID) (*database.Order, error)
	ReleaseTable(ctx context.Context, businessID, tableID uuid.UUID) error
	GetFloorPlan(ctx context.Context, pool database.DBTX, businessID uuid.UUID) (*service.FloorPlan, error)
}

// TableHandler handles floor plan and table lifecycle endpoints.
type TableHandler struct {
	svc  TableServicer
	pool database.DBTX
	hub  *ws.Hub
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(svc TableServicer, pool database.DBTX, hub *ws.Hub) *TableHandler {
	return &TableHandler{svc: svc, pool: pool, hub: hub}
}

// RegisterRoutes registers table endpoints on the given Chi router.
// Expected to be mounted inside a business-scoped subrouter: /businesses/{bid}/tables
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.FloorPlan)
	r.Post("/{tableID}/reserve", h.Reserve)
	r.Post("/{tableID}/release", h.Release)
}

// RegisterOrderRoutes registers the table-movement order endpoints.
// Expected to be mounted inside the orders subrouter: /businesses/{bid}/orders
func (h *TableHandler) RegisterOrderRoutes(r chi.Router) {
	r.Post("/{ticketID}/resume", h.Resume)
	r.Post("/{ticketID}/change-table", h.ChangeTable)
	r.Post("/{ticketID}/replace-table", h.ReplaceTable)
	r.Post("/{ticketID}/merge-tables", h.MergeTables)
}

// --- Request / Response types ---

type reserveTableRequest struct {
	CustomerCount int32  `json:"customer_count"`
	GratuityKey   string `json:"gratuity_key"`
	GratuityType  string `json:"gratuity_type"`
	GratuityValue string `json:"gratuity_value"`
}

type changeTableRequest struct {
	NewTableID string `json:"new_table_id"`
}

type replaceTableRequest struct {
	OldTableID string `json:"old_table_id"`
	NewTableID string `json:"new_table_id"`
}

type mergeTablesRequest struct {
	TableIDs []string `json:"table_ids"`
}

type floorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
}

type tableResponse struct {
	ID       uuid.UUID  `json:"id"`
	FloorID  uuid.UUID  `json:"floor_id"`
	Name     string     `json:"name"`
	Capacity int32      `json:"capacity"`
	Status   string     `json:"status"`
	IsLocked bool       `json:"is_locked"`
	LockedBy *uuid.UUID `json:"locked_by"`
}

type floorPlanResponse struct {
	Floors []floorResponse `json:"floors"`
	Tables []tableResponse `json:"tables"`
}

type orderResponse struct {
	ID             uuid.UUID   `json:"id"`
	TableID        uuid.UUID   `json:"table_id"`
	MergedTableIDs []uuid.UUID `json:"merged_table_ids"`
	TicketID       string      `json:"ticket_id"`
	TicketTitle    string      `json:"ticket_title"`
	Status         string      `json:"status"`
	CustomerCount  int32       `json:"customer_count"`
	GratuityKey    string      `json:"gratuity_key"`
	GratuityType   *string     `json:"gratuity_type"`
	GratuityValue  *string     `json:"gratuity_value"`
	DiscountReason *string     `json:"discount_reason"`
	CreatedBy      uuid.UUID   `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	CompletedAt    *time.Time  `json:"completed_at"`
}

type reserveTableResponse struct {
	Order orderResponse `json:"order"`
	Check checkResponse `json:"check"`
}

type checkResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type resumeOrderResponse struct {
	Order    orderResponse `json:"order"`
	ServedBy uuid.UUID     `json:"served_by"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		TableID:        o.TableID,
		MergedTableIDs: o.MergedTableIds,
		TicketID:       o.TicketID,
		TicketTitle:    o.TicketTitle,
		Status:         o.Status,
		CustomerCount:  o.CustomerCount,
		GratuityKey:    o.GratuityKey,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
	}
	if o.GratuityType.Valid {
		resp.GratuityType = &o.GratuityType.String
	}
	if o.GratuityValue.Valid {
		v := money.NumericString(o.GratuityValue)
		resp.GratuityValue = &v
	}
	if o.DiscountReason.Valid {
		resp.DiscountReason = &o.DiscountReason.String
	}
	if o.CompletedAt.Valid {
		resp.CompletedAt = &o.CompletedAt.Time
	}
	return resp
}

func toCheckResponse(c database.Check) checkResponse {
	return checkResponse{ID: c.ID, Status: c.Status}
}

// --- Handlers ---

// FloorPlan lists every floor and table for the business.
func (h *TableHandler) FloorPlan(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.svc.GetFloorPlan(r.Context(), h.pool, businessID)
	if err != nil {
		log.Printf("ERROR: failed to load floor plan: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := floorPlanResponse{
		Floors: make([]floorResponse, 0, len(plan.Floors)),
		Tables: make([]tableResponse, 0, len(plan.Tables)),
	}
	for _, f := range plan.Floors {
		resp.Floors = append(resp.Floors, floorResponse{ID: f.ID, Name: f.Name, SortOrder: f.SortOrder})
	}
	for _, t := range plan.Tables {
		tr := tableResponse{
			ID:       t.ID,
			FloorID:  t.FloorID,
			Name:     t.Name,
			Capacity: t.Capacity,
			Status:   t.Status,
			IsLocked: t.IsLocked,
		}
		if t.LockedBy.Valid {
			id := uuid.UUID(t.LockedBy.Bytes)
			tr.LockedBy = &id
		}
		resp.Tables = append(resp.Tables, tr)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Reserve seats a party at a table, opening a new order and check.
func (h *TableHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	var req reserveTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.ReserveTable(r.Context(), service.ReserveTableRequest{
		BusinessID:    businessID,
		TableID:       tableID,
		EmployeeID:    claims.EmployeeID,
		CustomerCount: req.CustomerCount,
		GratuityKey:   req.GratuityKey,
		GratuityType:  req.GratuityType,
		GratuityValue: req.GratuityValue,
	})
	if err != nil {
		h.writeTableError(w, err)
		return
	}

	h.broadcastTableUpdate(businessID, result.Order)
	writeJSON(w, http.StatusCreated, reserveTableResponse{
		Order: toOrderResponse(result.Order),
		Check: toCheckResponse(result.Check),
	})
}

// Release force-releases a table regardless of order state.
func (h *TableHandler) Release(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	tableID, err := uuid.Parse(chi.URLParam(r, "tableID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	if err := h.svc.ReleaseTable(r.Context(), businessID, tableID); err != nil {
		h.writeTableError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToBusiness(businessID, ws.NewEvent(ws.EventTableUpdated, map[string]string{
			"table_id": tableID.String(),
			"status":   "AVAILABLE",
		}))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resume reopens a ticket on a waiter device.
func (h *TableHandler) Resume(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.svc.ResumeOrder(r.Context(), businessID, ticketID, claims.EmployeeID)
	if err != nil {
		h.writeTableError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resumeOrderResponse{
		Order:    toOrderResponse(result.Order),
		ServedBy: result.ServedBy,
	})
}

// ChangeTable moves the whole order to a new table set.
func (h *TableHandler) ChangeTable(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req changeTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	newTableID, err := uuid.Parse(req.NewTableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid new_table_id"})
		return
	}

	order, err := h.svc.ChangeTable(r.Context(), businessID, ticketID, newTableID)
	if err != nil {
		h.writeTableError(w, err)
		return
	}

	h.broadcastTableUpdate(businessID, *order)
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// ReplaceTable swaps one table in the merged set for another.
func (h *TableHandler) ReplaceTable(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req replaceTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	oldTableID, err := uuid.Parse(req.OldTableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid old_table_id"})
		return
	}
	newTableID, err := uuid.Parse(req.NewTableID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid new_table_id"})
		return
	}

	order, err := h.svc.ReplaceTable(r.Context(), businessID, ticketID, oldTableID, newTableID)
	if err != nil {
		h.writeTableError(w, err)
		return
	}

	h.broadcastTableUpdate(businessID, *order)
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// MergeTables absorbs additional tables (and any orders on them) into this order.
func (h *TableHandler) MergeTables(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req mergeTablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.TableIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "table_ids are required"})
		return
	}

	tableIDs := make([]uuid.UUID, 0, len(req.TableIDs))
	for _, raw := range req.TableIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID: " + raw})
			return
		}
		tableIDs = append(tableIDs, id)
	}

	order, err := h.svc.MergeTables(r.Context(), businessID, ticketID, tableIDs)
	if err != nil {
		h.writeTableError(w, err)
		return
	}

	h.broadcastTableUpdate(businessID, *order)
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// --- Helpers ---

func (h *TableHandler) broadcastTableUpdate(businessID uuid.UUID, order database.Order) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastToBusiness(businessID, ws.NewEvent(ws.EventTableUpdated, map[string]interface{}{
		"ticket_id":        order.TicketID,
		"table_id":         order.TableID,
		"merged_table_ids": order.MergedTableIds,
	}))
}

func (h *TableHandler) writeTableError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTableNotFound), errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrTableOccupied):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrTableNotInMergedSet),
		errors.Is(err, service.ErrInvalidCustomerCount),
		errors.Is(err, service.ErrInvalidGratuityKey),
		errors.Is(err, service.ErrInvalidGratuityType),
		errors.Is(err, service.ErrInvalidGratuityValue),
		errors.Is(err, service.ErrOrderCompleted):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: table operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// businessIDFromRequest parses the {bid} path param shared by all
// business-scoped handlers.
func businessIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	businessID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid business ID"})
		return uuid.Nil, false
	}
	return businessID, true
}
