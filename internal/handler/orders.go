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

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	SendToKitchen(ctx context.Context, req service.SendToKitchenRequest) (*service.SendToKitchenResult, error)
	UpdateItemStatus(ctx context.Context, req service.UpdateItemStatusRequest) ([]database.OrderItem, error)
	VoidItems(ctx context.Context, req service.VoidItemsRequest) ([]database.OrderItem, error)
	ApplyDiscount(ctx context.Context, req service.DiscountRequest) ([]database.OrderItem, error)
	RemoveTempItems(ctx context.Context, businessID uuid.UUID, ticketID string, itemIDs []uuid.UUID) (int64, error)
	CancelReservation(ctx context.Context, businessID uuid.UUID, ticketID string, employeeID uuid.UUID) error
	CompleteOrder(ctx context.Context, businessID uuid.UUID, ticketID string) (*service.CompleteOrderResult, error)
	ListActiveOrders(ctx context.Context, pool database.DBTX, businessID uuid.UUID) ([]database.Order, error)
	OrderItems(ctx context.Context, pool database.DBTX, businessID uuid.UUID, ticketID string) (database.Order, []database.OrderItem, []database.OrderItemModifier, error)
}

// OrderHandler handles order lifecycle and item endpoints.
type OrderHandler struct {
	svc  OrderServicer
	pool database.DBTX
	hub  *ws.Hub
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, pool database.DBTX, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{svc: svc, pool: pool, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside a business-scoped subrouter: /businesses/{bid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListActive)
	r.Get("/{ticketID}", h.Get)
	r.Delete("/{ticketID}", h.Cancel)
	r.Post("/{ticketID}/complete", h.Complete)
	r.Post("/{ticketID}/items", h.SendToKitchen)
	r.Patch("/{ticketID}/items", h.UpdateItemStatus)
	r.Post("/{ticketID}/items/void", h.VoidItems)
	r.Post("/{ticketID}/items/discount", h.Discount)
	r.Delete("/{ticketID}/items/temp", h.RemoveTempItems)
}

// --- Request / Response types ---

type sendItemModifierRequest struct {
	ModifierID string `json:"modifier_id"`
	Quantity   int32  `json:"quantity"`
}

type sendItemRequest struct {
	ItemID       string                    `json:"item_id"`
	MenuItemID   string                    `json:"menu_item_id"`
	Quantity     int32                     `json:"quantity"`
	UnitPrice    string                    `json:"unit_price"`
	Instructions string                    `json:"instructions"`
	Status       *int16                    `json:"status"`
	CustomerNo   int32                     `json:"customer_no"`
	DecisionIDs  []string                  `json:"decision_ids"`
	Modifiers    []sendItemModifierRequest `json:"modifiers"`
}

type sendToKitchenRequest struct {
	Items       []sendItemRequest `json:"items"`
	TableLocked bool              `json:"table_locked"`
}

type updateItemStatusRequest struct {
	Status    *int16                      `json:"status"`
	ItemIDs   []string                    `json:"item_ids"`
	Sequences []itemSequenceUpdateRequest `json:"sequences"`
}

type itemSequenceUpdateRequest struct {
	ItemID   string `json:"item_id"`
	Sequence int32  `json:"sequence"`
}

type voidItemsRequest struct {
	Action  string   `json:"action"`
	ItemIDs []string `json:"item_ids"`
}

type discountRequest struct {
	Action        string   `json:"action"`
	ItemIDs       []string `json:"item_ids"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue string   `json:"discount_value"`
	Reason        string   `json:"reason"`
}

type removeTempItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type orderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	MenuItemID     uuid.UUID `json:"menu_item_id"`
	Quantity       int32     `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	Instructions   *string   `json:"instructions"`
	ItemStatus     int16     `json:"item_status"`
	CustomerNo     int32     `json:"customer_no"`
	Sequence       int32     `json:"sequence"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  *string   `json:"discount_value"`
	DiscountAmount string    `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

type orderItemModifierResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	ModifierID  uuid.UUID `json:"modifier_id"`
	Quantity    int32     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
}

type orderDetailResponse struct {
	Order     orderResponse               `json:"order"`
	Items     []orderItemResponse         `json:"items"`
	Modifiers []orderItemModifierResponse `json:"modifiers"`
}

type kitchenTicketLineResponse struct {
	ItemName     string `json:"item_name"`
	Quantity     int32  `json:"quantity"`
	Instructions string `json:"instructions"`
	CustomerNo   int32  `json:"customer_no"`
	Status       int16  `json:"status"`
}

type kitchenTicketResponse struct {
	PrinterID   uuid.UUID                   `json:"printer_id"`
	PrinterName string                      `json:"printer_name"`
	Lines       []kitchenTicketLineResponse `json:"lines"`
}

type sendToKitchenResponse struct {
	Order          orderResponse           `json:"order"`
	CreatedItems   []orderItemResponse     `json:"created_items"`
	UpdatedItems   []orderItemResponse     `json:"updated_items"`
	KitchenTickets []kitchenTicketResponse `json:"kitchen_tickets"`
}

type completeOrderResponse struct {
	Order orderResponse `json:"order"`
	Check checkResponse `json:"check"`
}

func toOrderItemResponse(item database.OrderItem) orderItemResponse {
	resp := orderItemResponse{
		ID:             item.ID,
		MenuItemID:     item.MenuItemID,
		Quantity:       item.Quantity,
		UnitPrice:      money.NumericString(item.UnitPrice),
		ItemStatus:     item.ItemStatus,
		CustomerNo:     item.CustomerNo,
		Sequence:       item.Sequence,
		DiscountType:   item.DiscountType,
		DiscountAmount: money.NumericString(item.DiscountAmount),
		CreatedAt:      item.CreatedAt,
	}
	if item.Instructions.Valid {
		resp.Instructions = &item.Instructions.String
	}
	if item.DiscountValue.Valid {
		v := money.NumericString(item.DiscountValue)
		resp.DiscountValue = &v
	}
	return resp
}

func toOrderItemResponses(items []database.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toOrderItemResponse(item))
	}
	return out
}

func toKitchenTicketResponses(tickets []service.KitchenTicket) []kitchenTicketResponse {
	out := make([]kitchenTicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		tr := kitchenTicketResponse{
			PrinterID:   ticket.PrinterID,
			PrinterName: ticket.PrinterName,
			Lines:       make([]kitchenTicketLineResponse, 0, len(ticket.Lines)),
		}
		for _, line := range ticket.Lines {
			tr.Lines = append(tr.Lines, kitchenTicketLineResponse{
				ItemName:     line.ItemName,
				Quantity:     line.Quantity,
				Instructions: line.Instructions,
				CustomerNo:   line.CustomerNo,
				Status:       line.Status,
			})
		}
		out = append(out, tr)
	}
	return out
}

// --- Handlers ---

// ListActive lists every open or sent-to-kitchen order for the business.
func (h *OrderHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	orders, err := h.svc.ListActiveOrders(r.Context(), h.pool, businessID)
	if err != nil {
		log.Printf("ERROR: failed to list active orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns the order with its items and modifiers.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	order, items, modifiers, err := h.svc.OrderItems(r.Context(), h.pool, businessID, ticketID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	resp := orderDetailResponse{
		Order:     toOrderResponse(order),
		Items:     toOrderItemResponses(items),
		Modifiers: make([]orderItemModifierResponse, 0, len(modifiers)),
	}
	for _, m := range modifiers {
		resp.Modifiers = append(resp.Modifiers, orderItemModifierResponse{
			ID:          m.ID,
			OrderItemID: m.OrderItemID,
			ModifierID:  m.ModifierID,
			Quantity:    m.Quantity,
			UnitPrice:   money.NumericString(m.UnitPrice),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SendToKitchen applies an item batch to the order and pushes kitchen
// tickets to connected kitchen displays.
func (h *OrderHandler) SendToKitchen(w http.ResponseWriter, r *http.Request) {
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

	var req sendToKitchenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.SendItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		modifiers := make([]service.SendItemModifierRequest, 0, len(item.Modifiers))
		for _, mod := range item.Modifiers {
			modifiers = append(modifiers, service.SendItemModifierRequest{
				ModifierID: mod.ModifierID,
				Quantity:   mod.Quantity,
			})
		}
		items = append(items, service.SendItemRequest{
			ItemID:       item.ItemID,
			MenuItemID:   item.MenuItemID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Instructions: item.Instructions,
			Status:       item.Status,
			CustomerNo:   item.CustomerNo,
			DecisionIDs:  item.DecisionIDs,
			Modifiers:    modifiers,
		})
	}

	result, err := h.svc.SendToKitchen(r.Context(), service.SendToKitchenRequest{
		BusinessID:  businessID,
		TicketID:    ticketID,
		EmployeeID:  claims.EmployeeID,
		Items:       items,
		TableLocked: req.TableLocked,
	})
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	resp := sendToKitchenResponse{
		Order:          toOrderResponse(result.Order),
		CreatedItems:   toOrderItemResponses(result.CreatedItems),
		UpdatedItems:   toOrderItemResponses(result.UpdatedItems),
		KitchenTickets: toKitchenTicketResponses(result.KitchenTickets),
	}

	if h.hub != nil {
		for _, ticket := range resp.KitchenTickets {
			h.hub.BroadcastToBusiness(businessID, ws.NewEvent(ws.EventKitchenTicket, map[string]interface{}{
				"ticket_id":    result.Order.TicketID,
				"ticket_title": result.Order.TicketTitle,
				"printer":      ticket,
			}))
		}
		h.hub.BroadcastToBusiness(businessID, ws.NewEvent(ws.EventOrderUpdated, toOrderResponse(result.Order)))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateItemStatus bulk-updates item statuses and/or reorders sequences.
func (h *OrderHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
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

	var req updateItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	itemIDs, ok := parseUUIDs(w, req.ItemIDs)
	if !ok {
		return
	}
	sequences := make([]service.ItemSequenceUpdate, 0, len(req.Sequences))
	for _, seq := range req.Sequences {
		itemID, err := uuid.Parse(seq.ItemID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID: " + seq.ItemID})
			return
		}
		sequences = append(sequences, service.ItemSequenceUpdate{ItemID: itemID, Sequence: seq.Sequence})
	}

	items, err := h.svc.UpdateItemStatus(r.Context(), service.UpdateItemStatusRequest{
		BusinessID: businessID,
		TicketID:   ticketID,
		EmployeeID: claims.EmployeeID,
		Status:     req.Status,
		ItemIDs:    itemIDs,
		Sequences:  sequences,
	})
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemResponses(items))
}

// VoidItems voids items or undoes prior voids.
func (h *OrderHandler) VoidItems(w http.ResponseWriter, r *http.Request) {
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

	var req voidItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	itemIDs, ok := parseUUIDs(w, req.ItemIDs)
	if !ok {
		return
	}

	items, err := h.svc.VoidItems(r.Context(), service.VoidItemsRequest{
		BusinessID: businessID,
		TicketID:   ticketID,
		EmployeeID: claims.EmployeeID,
		Action:     req.Action,
		ItemIDs:    itemIDs,
	})
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemResponses(items))
}

// Discount applies, edits, or removes per-item discounts.
func (h *OrderHandler) Discount(w http.ResponseWriter, r *http.Request) {
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

	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	itemIDs, ok := parseUUIDs(w, req.ItemIDs)
	if !ok {
		return
	}

	items, err := h.svc.ApplyDiscount(r.Context(), service.DiscountRequest{
		BusinessID:    businessID,
		TicketID:      ticketID,
		EmployeeID:    claims.EmployeeID,
		Action:        req.Action,
		ItemIDs:       itemIDs,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Reason:        req.Reason,
	})
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemResponses(items))
}

// RemoveTempItems deletes unsent draft items from the order.
func (h *OrderHandler) RemoveTempItems(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	var req removeTempItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	itemIDs, ok := parseUUIDs(w, req.ItemIDs)
	if !ok {
		return
	}

	removed, err := h.svc.RemoveTempItems(r.Context(), businessID, ticketID, itemIDs)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

// Cancel archives an itemless reservation and releases its tables.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.CancelReservation(r.Context(), businessID, ticketID, claims.EmployeeID); err != nil {
		h.writeOrderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Complete closes the order and releases every table in its merged set.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketID")

	result, err := h.svc.CompleteOrder(r.Context(), businessID, ticketID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToBusiness(businessID, ws.NewEvent(ws.EventOrderCompleted, toOrderResponse(result.Order)))
	}

	writeJSON(w, http.StatusOK, completeOrderResponse{
		Order: toOrderResponse(result.Order),
		Check: toCheckResponse(result.Check),
	})
}

// --- Helpers ---

func parseUUIDs(w http.ResponseWriter, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID: " + s})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrMenuItemNotFound),
		errors.Is(err, service.ErrModifierNotFound),
		errors.Is(err, service.ErrDecisionNotFound),
		errors.Is(err, service.ErrCheckNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrOrderCompleted),
		errors.Is(err, service.ErrOrderHasItems):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidItemStatus),
		errors.Is(err, service.ErrInvalidVoidAction),
		errors.Is(err, service.ErrInvalidDiscount),
		errors.Is(err, service.ErrInvalidDiscountValue),
		errors.Is(err, service.ErrNoDiscountToEdit),
		errors.Is(err, service.ErrInvalidUnitPrice):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: order operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
