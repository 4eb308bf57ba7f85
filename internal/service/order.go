package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/enum"
	"github.com/sajipos/api/internal/money"
)

// Errors returned by the order service.
var (
	ErrOrderNotFound        = errors.New("order not found in business")
	ErrOrderCompleted       = errors.New("order is completed and immutable")
	ErrOrderHasItems        = errors.New("order has items and cannot be cancelled")
	ErrCheckNotFound        = errors.New("order has no check")
	ErrItemNotFound         = errors.New("order item not found")
	ErrMenuItemNotFound     = errors.New("menu item not found in business")
	ErrModifierNotFound     = errors.New("modifier not found in business")
	ErrDecisionNotFound     = errors.New("decision not found in business")
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidItemStatus    = errors.New("invalid item status")
	ErrInvalidVoidAction    = errors.New("invalid void action")
	ErrInvalidDiscount      = errors.New("invalid discount_type")
	ErrInvalidDiscountValue = errors.New("invalid discount_value")
	ErrNoDiscountToEdit     = errors.New("item has no discount to edit")
	ErrInvalidUnitPrice     = errors.New("invalid unit_price")
)

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	GetOrderByTicketID(ctx context.Context, arg database.GetOrderByTicketIDParams) (database.Order, error)
	GetCheckByOrder(ctx context.Context, orderID uuid.UUID) (database.Check, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateCheckStatusByOrder(ctx context.Context, arg database.UpdateCheckStatusByOrderParams) error
	UpdateOrderDiscountReason(ctx context.Context, arg database.UpdateOrderDiscountReasonParams) error
	GetMaxSequenceByCheck(ctx context.Context, checkID uuid.UUID) (int32, error)
	GetMenuItemForOrder(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.GetMenuItemForOrderRow, error)
	GetModifierForOrder(ctx context.Context, arg database.GetModifierForOrderParams) (database.Modifier, error)
	GetDecisionForOrder(ctx context.Context, arg database.GetDecisionForOrderParams) (database.Decision, error)
	GetPrinter(ctx context.Context, id uuid.UUID) (database.Printer, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	UpdateOrderItem(ctx context.Context, arg database.UpdateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error)
	CreateOrderItemDecision(ctx context.Context, arg database.CreateOrderItemDecisionParams) (database.OrderItemDecision, error)
	GetOrderItem(ctx context.Context, arg database.GetOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemModifier, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	UpdateOrderItemSequence(ctx context.Context, arg database.UpdateOrderItemSequenceParams) error
	UpdateOrderItemDiscount(ctx context.Context, arg database.UpdateOrderItemDiscountParams) (database.OrderItem, error)
	CountDiscountedItemsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CountOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	CreateVoidItem(ctx context.Context, arg database.CreateVoidItemParams) (database.VoidItem, error)
	GetVoidItem(ctx context.Context, itemID uuid.UUID) (database.VoidItem, error)
	DeleteVoidItem(ctx context.Context, itemID uuid.UUID) error
	ListVoidItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.VoidItem, error)
	DeleteTempOrderItems(ctx context.Context, arg database.DeleteTempOrderItemsParams) (int64, error)
	CreateOrderCancel(ctx context.Context, arg database.CreateOrderCancelParams) (database.OrderCancel, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ReleaseTable(ctx context.Context, id uuid.UUID) error
	SetTableLock(ctx context.Context, arg database.SetTableLockParams) error
	CloseOpenSessionsByOrder(ctx context.Context, orderID uuid.UUID) error
	ListActiveOrders(ctx context.Context, businessID uuid.UUID) ([]database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService handles the order aggregate: the item lifecycle from draft to
// fired to voided, discounts, and order completion.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// SendItemRequest is a single item in a send-to-kitchen batch. A nil ItemID
// creates a new item; a set ItemID updates the existing one.
type SendItemRequest struct {
	ItemID       string
	MenuItemID   string
	Quantity     int32
	UnitPrice    string
	Instructions string
	Status       *int16
	CustomerNo   int32
	DecisionIDs  []string
	Modifiers    []SendItemModifierRequest
}

// SendItemModifierRequest is a modifier on a new order item.
type SendItemModifierRequest struct {
	ModifierID string
	Quantity   int32
}

// SendToKitchenRequest is the validated input for a send-to-kitchen batch.
type SendToKitchenRequest struct {
	BusinessID  uuid.UUID
	TicketID    string
	EmployeeID  uuid.UUID
	Items       []SendItemRequest
	TableLocked bool
}

// KitchenTicketLine is one line on a printed kitchen ticket.
type KitchenTicketLine struct {
	ItemName     string
	Quantity     int32
	Instructions string
	CustomerNo   int32
	Status       int16
}

// KitchenTicket groups this batch's items by their kitchen printer.
type KitchenTicket struct {
	PrinterID   uuid.UUID
	PrinterName string
	Lines       []KitchenTicketLine
}

// SendToKitchenResult reports what the batch did.
type SendToKitchenResult struct {
	Order          database.Order
	CreatedItems   []database.OrderItem
	UpdatedItems   []database.OrderItem
	KitchenTickets []KitchenTicket
}

// SendToKitchen applies a batch of item creates and updates to an order and
// builds kitchen tickets for the batch. New items are sequenced after every
// existing item so priorities never need renumbering. Tickets are produced
// only for items routed to a printer flagged is_kitchen, and only for the
// items in this batch.
func (s *OrderService) SendToKitchen(ctx context.Context, req SendToKitchenRequest) (*SendToKitchenResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   req.TicketID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return nil, ErrOrderCompleted
	}

	check, err := store.GetCheckByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCheckNotFound
		}
		return nil, fmt.Errorf("get check: %w", err)
	}

	maxSeq, err := store.GetMaxSequenceByCheck(ctx, check.ID)
	if err != nil {
		return nil, fmt.Errorf("get max sequence: %w", err)
	}

	var created, updated []database.OrderItem
	ticketsByPrinter := make(map[uuid.UUID]*KitchenTicket)
	var printerOrder []uuid.UUID
	anyFired := false
	newIndex := int32(0)

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		status := enum.ItemStatusFire
		if item.Status != nil {
			if !isValidItemStatus(*item.Status) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidItemStatus)
			}
			status = *item.Status
		}
		if status == enum.ItemStatusFire {
			anyFired = true
		}

		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
		}
		menuItem, err := store.GetMenuItemForOrder(ctx, database.GetMenuItemForOrderParams{
			ID:         menuItemID,
			BusinessID: req.BusinessID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}

		unitPrice := money.FromNumeric(menuItem.Price)
		if item.UnitPrice != "" {
			unitPrice, err = decimal.NewFromString(item.UnitPrice)
			if err != nil || unitPrice.IsNegative() {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidUnitPrice)
			}
		}

		instructions := pgtype.Text{}
		if item.Instructions != "" {
			instructions = pgtype.Text{String: item.Instructions, Valid: true}
		}

		var row database.OrderItem
		if item.ItemID == "" {
			row, err = store.CreateOrderItem(ctx, database.CreateOrderItemParams{
				OrderID:      order.ID,
				CheckID:      check.ID,
				MenuItemID:   menuItemID,
				Quantity:     item.Quantity,
				UnitPrice:    money.ToNumeric(unitPrice),
				Instructions: instructions,
				ItemStatus:   status,
				CustomerNo:   item.CustomerNo,
				Sequence:     maxSeq + 1 + newIndex,
				EmployeeID:   req.EmployeeID,
			})
			if err != nil {
				return nil, fmt.Errorf("item[%d]: create: %w", i, err)
			}
			newIndex++

			for j, mod := range item.Modifiers {
				if mod.Quantity <= 0 {
					return nil, fmt.Errorf("item[%d].modifiers[%d]: %w", i, j, ErrInvalidQuantity)
				}
				modID, err := uuid.Parse(mod.ModifierID)
				if err != nil {
					return nil, fmt.Errorf("item[%d].modifiers[%d]: %w", i, j, ErrModifierNotFound)
				}
				modifier, err := store.GetModifierForOrder(ctx, database.GetModifierForOrderParams{
					ID:         modID,
					BusinessID: req.BusinessID,
				})
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, fmt.Errorf("item[%d].modifiers[%d]: %w", i, j, ErrModifierNotFound)
					}
					return nil, fmt.Errorf("item[%d].modifiers[%d]: get modifier: %w", i, j, err)
				}
				if _, err := store.CreateOrderItemModifier(ctx, database.CreateOrderItemModifierParams{
					OrderItemID: row.ID,
					ModifierID:  modID,
					Quantity:    mod.Quantity,
					UnitPrice:   modifier.Price,
					EmployeeID:  req.EmployeeID,
				}); err != nil {
					return nil, fmt.Errorf("item[%d].modifiers[%d]: create: %w", i, j, err)
				}
			}

			for j, decisionID := range item.DecisionIDs {
				did, err := uuid.Parse(decisionID)
				if err != nil {
					return nil, fmt.Errorf("item[%d].decisions[%d]: %w", i, j, ErrDecisionNotFound)
				}
				if _, err := store.GetDecisionForOrder(ctx, database.GetDecisionForOrderParams{
					ID:         did,
					BusinessID: req.BusinessID,
				}); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, fmt.Errorf("item[%d].decisions[%d]: %w", i, j, ErrDecisionNotFound)
					}
					return nil, fmt.Errorf("item[%d].decisions[%d]: get decision: %w", i, j, err)
				}
				if _, err := store.CreateOrderItemDecision(ctx, database.CreateOrderItemDecisionParams{
					OrderItemID: row.ID,
					DecisionID:  did,
					EmployeeID:  req.EmployeeID,
				}); err != nil {
					return nil, fmt.Errorf("item[%d].decisions[%d]: create: %w", i, j, err)
				}
			}
			created = append(created, row)
		} else {
			itemID, err := uuid.Parse(item.ItemID)
			if err != nil {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrItemNotFound)
			}
			if _, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: itemID, OrderID: order.ID}); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("item[%d]: %w", i, ErrItemNotFound)
				}
				return nil, fmt.Errorf("item[%d]: get item: %w", i, err)
			}
			row, err = store.UpdateOrderItem(ctx, database.UpdateOrderItemParams{
				ID:           itemID,
				OrderID:      order.ID,
				Quantity:     item.Quantity,
				UnitPrice:    money.ToNumeric(unitPrice),
				Instructions: instructions,
				ItemStatus:   status,
				CustomerNo:   item.CustomerNo,
				EmployeeID:   req.EmployeeID,
			})
			if err != nil {
				return nil, fmt.Errorf("item[%d]: update: %w", i, err)
			}
			updated = append(updated, row)
		}

		// Route to a kitchen ticket only when the menu item has a printer
		// and that printer is a kitchen printer.
		if menuItem.PrinterID.Valid {
			printerID := uuid.UUID(menuItem.PrinterID.Bytes)
			ticket, ok := ticketsByPrinter[printerID]
			if !ok {
				printer, err := store.GetPrinter(ctx, printerID)
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						continue
					}
					return nil, fmt.Errorf("item[%d]: get printer: %w", i, err)
				}
				if !printer.IsKitchen {
					continue
				}
				ticket = &KitchenTicket{PrinterID: printer.ID, PrinterName: printer.Name}
				ticketsByPrinter[printerID] = ticket
				printerOrder = append(printerOrder, printerID)
			}
			ticket.Lines = append(ticket.Lines, KitchenTicketLine{
				ItemName:     menuItem.Name,
				Quantity:     item.Quantity,
				Instructions: item.Instructions,
				CustomerNo:   item.CustomerNo,
				Status:       status,
			})
		}
	}

	if anyFired && order.Status == enum.OrderStatusOpen {
		order, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
			ID:     order.ID,
			Status: enum.OrderStatusSentToKitchen,
		})
		if err != nil {
			return nil, fmt.Errorf("update order status: %w", err)
		}
	}

	// Devices send table_locked=false when the waiter is done with the
	// table for now; that drops the advisory lock.
	if !req.TableLocked {
		if err := store.SetTableLock(ctx, database.SetTableLockParams{
			ID:       order.TableID,
			IsLocked: false,
			LockedBy: pgtype.UUID{},
		}); err != nil {
			return nil, fmt.Errorf("unlock table: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	tickets := make([]KitchenTicket, 0, len(printerOrder))
	for _, id := range printerOrder {
		tickets = append(tickets, *ticketsByPrinter[id])
	}
	return &SendToKitchenResult{
		Order:          order,
		CreatedItems:   created,
		UpdatedItems:   updated,
		KitchenTickets: tickets,
	}, nil
}

// ItemSequenceUpdate reorders one item.
type ItemSequenceUpdate struct {
	ItemID   uuid.UUID
	Sequence int32
}

// UpdateItemStatusRequest bulk-sets item status and/or reorders sequences.
type UpdateItemStatusRequest struct {
	BusinessID uuid.UUID
	TicketID   string
	EmployeeID uuid.UUID
	Status     *int16
	ItemIDs    []uuid.UUID
	Sequences  []ItemSequenceUpdate
}

// UpdateItemStatus is a pure state transition on items: no billing side
// effects beyond what the new status implies. When ItemIDs is empty the
// status applies to every item on the order.
func (s *OrderService) UpdateItemStatus(ctx context.Context, req UpdateItemStatusRequest) ([]database.OrderItem, error) {
	if req.Status != nil && !isValidItemStatus(*req.Status) {
		return nil, ErrInvalidItemStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   req.TicketID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return nil, ErrOrderCompleted
	}

	var results []database.OrderItem
	if req.Status != nil {
		targets := req.ItemIDs
		if len(targets) == 0 {
			items, err := store.ListOrderItemsByOrder(ctx, order.ID)
			if err != nil {
				return nil, fmt.Errorf("list items: %w", err)
			}
			for _, it := range items {
				targets = append(targets, it.ID)
			}
		}
		for _, id := range targets {
			item, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
				ID:         id,
				OrderID:    order.ID,
				ItemStatus: *req.Status,
				EmployeeID: req.EmployeeID,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, ErrItemNotFound
				}
				return nil, fmt.Errorf("update item status: %w", err)
			}
			results = append(results, item)
		}
	}

	for _, seq := range req.Sequences {
		if err := store.UpdateOrderItemSequence(ctx, database.UpdateOrderItemSequenceParams{
			ID:       seq.ItemID,
			OrderID:  order.ID,
			Sequence: seq.Sequence,
		}); err != nil {
			return nil, fmt.Errorf("update item sequence: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return results, nil
}

// VoidItemsRequest voids items or undoes earlier voids.
type VoidItemsRequest struct {
	BusinessID uuid.UUID
	TicketID   string
	EmployeeID uuid.UUID
	Action     string
	ItemIDs    []uuid.UUID
}

// VoidItems implements the reversible tombstone: void snapshots the item's
// current status into a void log row before flipping it to VOID, undo
// restores from that row and deletes it. Voiding an already voided item and
// undoing a non-voided item are both no-ops.
func (s *OrderService) VoidItems(ctx context.Context, req VoidItemsRequest) ([]database.OrderItem, error) {
	switch req.Action {
	case enum.VoidActionVoid, enum.VoidActionUndo, enum.VoidActionUndoAll:
	default:
		return nil, ErrInvalidVoidAction
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   req.TicketID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return nil, ErrOrderCompleted
	}

	var results []database.OrderItem
	switch req.Action {
	case enum.VoidActionVoid:
		for _, id := range req.ItemIDs {
			item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: id, OrderID: order.ID})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, ErrItemNotFound
				}
				return nil, fmt.Errorf("get item: %w", err)
			}
			if item.ItemStatus == enum.ItemStatusVoid {
				continue
			}
			if _, err := store.CreateVoidItem(ctx, database.CreateVoidItemParams{
				ItemID:        item.ID,
				OrderID:       order.ID,
				OldItemStatus: item.ItemStatus,
			}); err != nil {
				return nil, fmt.Errorf("create void log: %w", err)
			}
			voided, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
				ID:         item.ID,
				OrderID:    order.ID,
				ItemStatus: enum.ItemStatusVoid,
				EmployeeID: req.EmployeeID,
			})
			if err != nil {
				return nil, fmt.Errorf("void item: %w", err)
			}
			results = append(results, voided)
		}

	case enum.VoidActionUndo:
		for _, id := range req.ItemIDs {
			item, err := s.undoVoid(ctx, store, order.ID, id, req.EmployeeID)
			if err != nil {
				return nil, err
			}
			if item != nil {
				results = append(results, *item)
			}
		}

	case enum.VoidActionUndoAll:
		voids, err := store.ListVoidItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list void log: %w", err)
		}
		for _, v := range voids {
			item, err := s.undoVoid(ctx, store, order.ID, v.ItemID, req.EmployeeID)
			if err != nil {
				return nil, err
			}
			if item != nil {
				results = append(results, *item)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return results, nil
}

// undoVoid restores one item from its void log row. Items without a log row
// (never voided, or already undone) are skipped.
func (s *OrderService) undoVoid(ctx context.Context, store OrderStore, orderID, itemID, employeeID uuid.UUID) (*database.OrderItem, error) {
	void, err := store.GetVoidItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get void log: %w", err)
	}
	item, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:         itemID,
		OrderID:    orderID,
		ItemStatus: void.OldItemStatus,
		EmployeeID: employeeID,
	})
	if err != nil {
		return nil, fmt.Errorf("restore item: %w", err)
	}
	if err := store.DeleteVoidItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("delete void log: %w", err)
	}
	return &item, nil
}

// DiscountRequest applies, edits, or removes per-item discounts.
type DiscountRequest struct {
	BusinessID    uuid.UUID
	TicketID      string
	EmployeeID    uuid.UUID
	Action        string
	ItemIDs       []uuid.UUID
	DiscountType  string
	DiscountValue string
	Reason        string
}

// ApplyDiscount manages per-item discounts. Percentage discounts are capped
// at 100%; fixed discounts are capped at the item's own line total so an
// item can never go negative. The order-level discount reason is set on
// apply/edit and cleared only when the last discounted item loses its
// discount.
func (s *OrderService) ApplyDiscount(ctx context.Context, req DiscountRequest) ([]database.OrderItem, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   req.TicketID,
		BusinessID: req.BusinessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return nil, ErrOrderCompleted
	}

	var results []database.OrderItem
	switch req.Action {
	case enum.DiscountActionApply, enum.DiscountActionEdit:
		value, err := decimal.NewFromString(req.DiscountValue)
		if err != nil || value.IsNegative() {
			return nil, ErrInvalidDiscountValue
		}
		switch req.DiscountType {
		case enum.DiscountTypePercentage:
			if value.GreaterThan(decimal.NewFromInt(100)) {
				return nil, ErrInvalidDiscountValue
			}
		case enum.DiscountTypeFixed:
		default:
			return nil, ErrInvalidDiscount
		}

		for _, id := range req.ItemIDs {
			item, err := store.GetOrderItem(ctx, database.GetOrderItemParams{ID: id, OrderID: order.ID})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, ErrItemNotFound
				}
				return nil, fmt.Errorf("get item: %w", err)
			}
			if req.Action == enum.DiscountActionEdit && item.DiscountType == "" {
				return nil, ErrNoDiscountToEdit
			}

			lineTotal := money.FromNumeric(item.UnitPrice).Mul(decimal.NewFromInt32(item.Quantity))
			var amount decimal.Decimal
			if req.DiscountType == enum.DiscountTypePercentage {
				amount = money.Round2(money.Percent(lineTotal, value))
			} else {
				amount = value
				if amount.GreaterThan(lineTotal) {
					amount = lineTotal
				}
			}

			updated, err := store.UpdateOrderItemDiscount(ctx, database.UpdateOrderItemDiscountParams{
				ID:             item.ID,
				OrderID:        order.ID,
				DiscountType:   req.DiscountType,
				DiscountValue:  money.ToNumeric(value),
				DiscountAmount: money.ToNumeric(amount),
				EmployeeID:     req.EmployeeID,
			})
			if err != nil {
				return nil, fmt.Errorf("update discount: %w", err)
			}
			results = append(results, updated)
		}

		reason := pgtype.Text{}
		if req.Reason != "" {
			reason = pgtype.Text{String: req.Reason, Valid: true}
		}
		if err := store.UpdateOrderDiscountReason(ctx, database.UpdateOrderDiscountReasonParams{
			ID:             order.ID,
			DiscountReason: reason,
		}); err != nil {
			return nil, fmt.Errorf("update discount reason: %w", err)
		}

	case enum.DiscountActionRemove:
		for _, id := range req.ItemIDs {
			updated, err := s.clearDiscount(ctx, store, order.ID, id, req.EmployeeID)
			if err != nil {
				return nil, err
			}
			results = append(results, *updated)
		}
		remaining, err := store.CountDiscountedItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("count discounted items: %w", err)
		}
		if remaining == 0 {
			if err := store.UpdateOrderDiscountReason(ctx, database.UpdateOrderDiscountReasonParams{
				ID:             order.ID,
				DiscountReason: pgtype.Text{},
			}); err != nil {
				return nil, fmt.Errorf("clear discount reason: %w", err)
			}
		}

	case enum.DiscountActionRemoveAll:
		items, err := store.ListOrderItemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		for _, item := range items {
			if item.DiscountType == "" {
				continue
			}
			updated, err := s.clearDiscount(ctx, store, order.ID, item.ID, req.EmployeeID)
			if err != nil {
				return nil, err
			}
			results = append(results, *updated)
		}
		if err := store.UpdateOrderDiscountReason(ctx, database.UpdateOrderDiscountReasonParams{
			ID:             order.ID,
			DiscountReason: pgtype.Text{},
		}); err != nil {
			return nil, fmt.Errorf("clear discount reason: %w", err)
		}

	default:
		return nil, ErrInvalidDiscount
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return results, nil
}

func (s *OrderService) clearDiscount(ctx context.Context, store OrderStore, orderID, itemID, employeeID uuid.UUID) (*database.OrderItem, error) {
	updated, err := store.UpdateOrderItemDiscount(ctx, database.UpdateOrderItemDiscountParams{
		ID:             itemID,
		OrderID:        orderID,
		DiscountType:   "",
		DiscountValue:  money.ToNumeric(decimal.Zero),
		DiscountAmount: money.ToNumeric(decimal.Zero),
		EmployeeID:     employeeID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("clear discount: %w", err)
	}
	return &updated, nil
}

// RemoveTempItems hard-deletes draft items. Only TEMP items can be deleted;
// everything fired goes through the void flow instead.
func (s *OrderService) RemoveTempItems(ctx context.Context, businessID uuid.UUID, ticketID string, itemIDs []uuid.UUID) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   ticketID,
		BusinessID: businessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrOrderNotFound
		}
		return 0, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCompleted {
		return 0, ErrOrderCompleted
	}

	deleted, err := store.DeleteTempOrderItems(ctx, database.DeleteTempOrderItemsParams{
		OrderID: order.ID,
		Ids:     itemIDs,
	})
	if err != nil {
		return 0, fmt.Errorf("delete temp items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return deleted, nil
}

// CancelReservation deletes an order that never got items, releasing its
// tables. Orders with any items (whatever their status) cannot be cancelled;
// the archive row is written first so the cancellation itself is traceable.
func (s *OrderService) CancelReservation(ctx context.Context, businessID uuid.UUID, ticketID string, employeeID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   ticketID,
		BusinessID: businessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("get order: %w", err)
	}

	count, err := store.CountOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return ErrOrderHasItems
	}

	if _, err := store.CreateOrderCancel(ctx, database.CreateOrderCancelParams{
		OrderID:       order.ID,
		BusinessID:    order.BusinessID,
		TableID:       order.TableID,
		TicketID:      order.TicketID,
		TicketTitle:   order.TicketTitle,
		Status:        order.Status,
		CustomerCount: order.CustomerCount,
		CancelledBy:   employeeID,
	}); err != nil {
		return fmt.Errorf("archive cancel: %w", err)
	}
	if err := store.CloseOpenSessionsByOrder(ctx, order.ID); err != nil {
		return fmt.Errorf("close sessions: %w", err)
	}
	for _, tableID := range order.MergedTableIds {
		if err := store.ReleaseTable(ctx, tableID); err != nil {
			return fmt.Errorf("release table: %w", err)
		}
	}
	if err := store.DeleteOrder(ctx, order.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return tx.Commit(ctx)
}

// CompleteOrderResult is the closed order with its paid check.
type CompleteOrderResult struct {
	Order database.Order
	Check database.Check
}

// CompleteOrder closes the order: order completed, check paid, every table
// in the merged set released, latest session closed. Completion does not
// require a zero balance; closing an underpaid order is a deliberate
// business capability (comps, write-offs).
func (s *OrderService) CompleteOrder(ctx context.Context, businessID uuid.UUID, ticketID string) (*CompleteOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		TicketID:   ticketID,
		BusinessID: businessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	check, err := store.GetCheckByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCheckNotFound
		}
		return nil, fmt.Errorf("get check: %w", err)
	}

	completed, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     order.ID,
		Status: enum.OrderStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	if err := store.UpdateCheckStatusByOrder(ctx, database.UpdateCheckStatusByOrderParams{
		OrderID: order.ID,
		Status:  enum.CheckStatusPaid,
	}); err != nil {
		return nil, fmt.Errorf("mark check paid: %w", err)
	}
	for _, tableID := range order.MergedTableIds {
		if err := store.ReleaseTable(ctx, tableID); err != nil {
			return nil, fmt.Errorf("release table: %w", err)
		}
	}
	if err := store.CloseOpenSessionsByOrder(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("close sessions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	check.Status = enum.CheckStatusPaid
	return &CompleteOrderResult{Order: completed, Check: check}, nil
}

// ListActiveOrders lists every non-completed order for the business.
func (s *OrderService) ListActiveOrders(ctx context.Context, pool database.DBTX, businessID uuid.UUID) ([]database.Order, error) {
	return s.newStore(pool).ListActiveOrders(ctx, businessID)
}

// OrderItems loads all items and their modifiers for a ticket.
func (s *OrderService) OrderItems(ctx context.Context, pool database.DBTX, businessID uuid.UUID, ticketID string) (database.Order, []database.OrderItem, []database.OrderItemModifier, error) {
	store := s.newStore(pool)
	order, err := store.GetOrderByTicketID(ctx, database.GetOrderByTicketIDParams{
		TicketID:   ticketID,
		BusinessID: businessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, nil, nil, ErrOrderNotFound
		}
		return database.Order{}, nil, nil, fmt.Errorf("get order: %w", err)
	}
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, nil, nil, fmt.Errorf("list items: %w", err)
	}
	mods, err := store.ListOrderItemModifiersByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, nil, nil, fmt.Errorf("list modifiers: %w", err)
	}
	return order, items, mods, nil
}

func isValidItemStatus(s int16) bool {
	switch s {
	case enum.ItemStatusHold, enum.ItemStatusFire, enum.ItemStatusTemp, enum.ItemStatusVoid:
		return true
	}
	return false
}
