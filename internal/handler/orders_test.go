package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/enum"
	"github.com/sajipos/api/internal/handler"
	"github.com/sajipos/api/internal/money"
	"github.com/sajipos/api/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock service ---

type mockOrderService struct {
	sendReq    service.SendToKitchenRequest
	sendResult *service.SendToKitchenResult
	sendErr    error

	updateReq   service.UpdateItemStatusRequest
	updateItems []database.OrderItem
	updateErr   error

	voidReq   service.VoidItemsRequest
	voidItems []database.OrderItem
	voidErr   error

	discountReq   service.DiscountRequest
	discountItems []database.OrderItem
	discountErr   error

	removedCount int64
	removeErr    error

	cancelErr error

	completeResult *service.CompleteOrderResult
	completeErr    error

	activeOrders []database.Order
	listErr      error

	detailOrder     database.Order
	detailItems     []database.OrderItem
	detailModifiers []database.OrderItemModifier
	detailErr       error
}

func (m *mockOrderService) SendToKitchen(_ context.Context, req service.SendToKitchenRequest) (*service.SendToKitchenResult, error) {
	m.sendReq = req
	return m.sendResult, m.sendErr
}

func (m *mockOrderService) UpdateItemStatus(_ context.Context, req service.UpdateItemStatusRequest) ([]database.OrderItem, error) {
	m.updateReq = req
	return m.updateItems, m.updateErr
}

func (m *mockOrderService) VoidItems(_ context.Context, req service.VoidItemsRequest) ([]database.OrderItem, error) {
	m.voidReq = req
	return m.voidItems, m.voidErr
}

func (m *mockOrderService) ApplyDiscount(_ context.Context, req service.DiscountRequest) ([]database.OrderItem, error) {
	m.discountReq = req
	return m.discountItems, m.discountErr
}

func (m *mockOrderService) RemoveTempItems(_ context.Context, _ uuid.UUID, _ string, _ []uuid.UUID) (int64, error) {
	return m.removedCount, m.removeErr
}

func (m *mockOrderService) CancelReservation(_ context.Context, _ uuid.UUID, _ string, _ uuid.UUID) error {
	return m.cancelErr
}

func (m *mockOrderService) CompleteOrder(_ context.Context, _ uuid.UUID, _ string) (*service.CompleteOrderResult, error) {
	return m.completeResult, m.completeErr
}

func (m *mockOrderService) ListActiveOrders(_ context.Context, _ database.DBTX, _ uuid.UUID) ([]database.Order, error) {
	return m.activeOrders, m.listErr
}

func (m *mockOrderService) OrderItems(_ context.Context, _ database.DBTX, _ uuid.UUID, _ string) (database.Order, []database.OrderItem, []database.OrderItemModifier, error) {
	return m.detailOrder, m.detailItems, m.detailModifiers, m.detailErr
}

func newOrderHarness(t *testing.T, svc *mockOrderService) *businessHarness {
	t.Helper()
	h := handler.NewOrderHandler(svc, nil, nil)
	return newBusinessHarness(t, func(r chi.Router) {
		r.Route("/orders", h.RegisterRoutes)
	})
}

func makeOrderItem(status int16, price string) database.OrderItem {
	d, _ := decimal.NewFromString(price)
	return database.OrderItem{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		CheckID:    uuid.New(),
		MenuItemID: uuid.New(),
		Quantity:   1,
		UnitPrice:  money.ToNumeric(d),
		ItemStatus: status,
		EmployeeID: uuid.New(),
	}
}

// --- List / Get ---

func TestListActiveOrders(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)
	svc.activeOrders = []database.Order{
		makeOrder(h.businessID, "20260115-001"),
		makeOrder(h.businessID, "20260115-002"),
	}

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/orders/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp []map[string]interface{}
	decodeInto(t, rr, &resp)
	if len(resp) != 2 {
		t.Fatalf("orders: got %d, want 2", len(resp))
	}
	if resp[1]["ticket_id"] != "20260115-002" {
		t.Errorf("second ticket: got %v, want 20260115-002", resp[1]["ticket_id"])
	}
}

func TestGetOrder(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)
	svc.detailOrder = makeOrder(h.businessID, "20260115-001")
	svc.detailItems = []database.OrderItem{
		makeOrderItem(enum.ItemStatusFire, "45000"),
		makeOrderItem(enum.ItemStatusHold, "8000"),
	}

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/orders/20260115-001", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	items := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["unit_price"] != "45000.00" {
		t.Errorf("unit_price: got %v, want 45000.00", first["unit_price"])
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &mockOrderService{detailErr: service.ErrOrderNotFound}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/orders/20260115-099", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- Send to kitchen ---

func TestSendToKitchen(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	order := makeOrder(h.businessID, "20260115-001")
	created := makeOrderItem(enum.ItemStatusFire, "45000")
	svc.sendResult = &service.SendToKitchenResult{
		Order:        order,
		CreatedItems: []database.OrderItem{created},
		KitchenTickets: []service.KitchenTicket{{
			PrinterID:   uuid.New(),
			PrinterName: "Kitchen",
			Lines: []service.KitchenTicketLine{{
				ItemName: "Nasi Goreng",
				Quantity: 2,
				Status:   enum.ItemStatusFire,
			}},
		}},
	}

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items",
		map[string]interface{}{
			"items": []map[string]interface{}{
				{"menu_item_id": uuid.New().String(), "quantity": 2},
			},
		})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	tickets := resp["kitchen_tickets"].([]interface{})
	if len(tickets) != 1 {
		t.Fatalf("kitchen_tickets: got %d, want 1", len(tickets))
	}
	lines := tickets[0].(map[string]interface{})["lines"].([]interface{})
	if lines[0].(map[string]interface{})["item_name"] != "Nasi Goreng" {
		t.Errorf("line item name: got %v, want Nasi Goreng", lines[0])
	}

	if svc.sendReq.EmployeeID != h.employeeID {
		t.Errorf("employee: got %v, want %v", svc.sendReq.EmployeeID, h.employeeID)
	}
	if len(svc.sendReq.Items) != 1 || svc.sendReq.Items[0].Quantity != 2 {
		t.Errorf("items passed to service: got %+v", svc.sendReq.Items)
	}
}

func TestSendToKitchen_EmptyItems(t *testing.T) {
	svc := &mockOrderService{sendErr: service.ErrEmptyItems}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items",
		map[string]interface{}{"items": []map[string]interface{}{}})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSendToKitchen_CompletedOrder(t *testing.T) {
	svc := &mockOrderService{sendErr: service.ErrOrderCompleted}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items",
		map[string]interface{}{
			"items": []map[string]interface{}{
				{"menu_item_id": uuid.New().String(), "quantity": 1},
			},
		})

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

// --- Item status ---

func TestUpdateItemStatus(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	itemID := uuid.New()
	fired := makeOrderItem(enum.ItemStatusFire, "45000")
	svc.updateItems = []database.OrderItem{fired}

	status := enum.ItemStatusFire
	rr := h.do(t, "PATCH",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items",
		map[string]interface{}{
			"status":   status,
			"item_ids": []string{itemID.String()},
		})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if svc.updateReq.Status == nil || *svc.updateReq.Status != enum.ItemStatusFire {
		t.Errorf("status passed to service: got %v, want %d", svc.updateReq.Status, enum.ItemStatusFire)
	}
	if len(svc.updateReq.ItemIDs) != 1 || svc.updateReq.ItemIDs[0] != itemID {
		t.Errorf("item IDs: got %v, want [%v]", svc.updateReq.ItemIDs, itemID)
	}
}

func TestUpdateItemStatus_InvalidItemID(t *testing.T) {
	h := newOrderHarness(t, &mockOrderService{})

	rr := h.do(t, "PATCH",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items",
		map[string]interface{}{"item_ids": []string{"not-a-uuid"}})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Void ---

func TestVoidItems(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	voided := makeOrderItem(enum.ItemStatusVoid, "45000")
	svc.voidItems = []database.OrderItem{voided}

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items/void",
		map[string]interface{}{
			"action":   enum.VoidActionVoid,
			"item_ids": []string{voided.ID.String()},
		})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp []map[string]interface{}
	decodeInto(t, rr, &resp)
	if got := resp[0]["item_status"].(float64); int16(got) != enum.ItemStatusVoid {
		t.Errorf("item_status: got %v, want %d", got, enum.ItemStatusVoid)
	}
	if svc.voidReq.Action != enum.VoidActionVoid {
		t.Errorf("action: got %s, want %s", svc.voidReq.Action, enum.VoidActionVoid)
	}
}

func TestVoidItems_InvalidAction(t *testing.T) {
	svc := &mockOrderService{voidErr: service.ErrInvalidVoidAction}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items/void",
		map[string]interface{}{"action": "obliterate"})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Discount ---

func TestApplyDiscount(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	item := makeOrderItem(enum.ItemStatusFire, "45000")
	item.DiscountType = enum.DiscountTypePercentage
	d := decimal.NewFromInt(10)
	item.DiscountValue = money.ToNumeric(d)
	item.DiscountAmount = money.ToNumeric(decimal.NewFromInt(4500))
	svc.discountItems = []database.OrderItem{item}

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items/discount",
		map[string]interface{}{
			"action":         enum.DiscountActionApply,
			"item_ids":       []string{item.ID.String()},
			"discount_type":  enum.DiscountTypePercentage,
			"discount_value": "10",
			"reason":         "regular",
		})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp []map[string]interface{}
	decodeInto(t, rr, &resp)
	if resp[0]["discount_amount"] != "4500.00" {
		t.Errorf("discount_amount: got %v, want 4500.00", resp[0]["discount_amount"])
	}
	if svc.discountReq.Reason != "regular" {
		t.Errorf("reason: got %s, want regular", svc.discountReq.Reason)
	}
}

func TestApplyDiscount_InvalidType(t *testing.T) {
	svc := &mockOrderService{discountErr: service.ErrInvalidDiscount}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items/discount",
		map[string]interface{}{
			"action":        enum.DiscountActionApply,
			"discount_type": "BOGO",
		})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Temp items / cancel / complete ---

func TestRemoveTempItems(t *testing.T) {
	svc := &mockOrderService{removedCount: 3}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "DELETE",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/items/temp",
		map[string]interface{}{"item_ids": []string{uuid.New().String()}})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if got := resp["removed"].(float64); got != 3 {
		t.Errorf("removed: got %v, want 3", got)
	}
}

func TestCancelReservation(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "DELETE", "/businesses/"+h.businessID.String()+"/orders/20260115-001", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestCancelReservation_HasItems(t *testing.T) {
	svc := &mockOrderService{cancelErr: service.ErrOrderHasItems}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "DELETE", "/businesses/"+h.businessID.String()+"/orders/20260115-001", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCompleteOrder(t *testing.T) {
	svc := &mockOrderService{}
	h := newOrderHarness(t, svc)

	order := makeOrder(h.businessID, "20260115-001")
	order.Status = enum.OrderStatusCompleted
	svc.completeResult = &service.CompleteOrderResult{
		Order: order,
		Check: database.Check{ID: uuid.New(), Status: enum.CheckStatusPaid},
	}

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/complete", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["order"].(map[string]interface{})["status"] != enum.OrderStatusCompleted {
		t.Errorf("order status: got %v, want %v", resp["order"], enum.OrderStatusCompleted)
	}
	if resp["check"].(map[string]interface{})["status"] != enum.CheckStatusPaid {
		t.Errorf("check status: got %v, want %v", resp["check"], enum.CheckStatusPaid)
	}
}

func TestCompleteOrder_AlreadyCompleted(t *testing.T) {
	svc := &mockOrderService{completeErr: service.ErrOrderCompleted}
	h := newOrderHarness(t, svc)

	rr := h.do(t, "POST",
		"/businesses/"+h.businessID.String()+"/orders/20260115-001/complete", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}
