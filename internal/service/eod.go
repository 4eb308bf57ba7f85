package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/billing"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/money"
)

// Errors returned by the end-of-day service.
var (
	ErrPendingPriorDates = errors.New("prior dates have no completed end of day")
	ErrActiveOrdersExist = errors.New("active orders exist in the target day")
	ErrFutureEodDate     = errors.New("cannot close a future date")
)

// EodStore defines the DB methods needed by the end-of-day service.
// Satisfied by *database.Queries (and its WithTx variant).
type EodStore interface {
	ListOrderDatesUpTo(ctx context.Context, arg database.ListOrderDatesUpToParams) ([]pgtype.Date, error)
	ListEodDatesUpTo(ctx context.Context, arg database.ListEodDatesUpToParams) ([]pgtype.Date, error)
	ListActiveOrders(ctx context.Context, businessID uuid.UUID) ([]database.Order, error)
	CountActiveOrdersInRange(ctx context.Context, arg database.CountActiveOrdersInRangeParams) (int64, error)
	ListCompletedOrdersInRange(ctx context.Context, arg database.ListCompletedOrdersInRangeParams) ([]database.Order, error)
	GetEndOfDay(ctx context.Context, arg database.GetEndOfDayParams) (database.EndOfDay, error)
	UpsertEndOfDay(ctx context.Context, arg database.UpsertEndOfDayParams) (database.EndOfDay, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (database.Business, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemModifier, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.PaymentHistory, error)
}

// NewEodStore creates an EodStore from a DBTX (pool or tx).
type NewEodStore func(db database.DBTX) EodStore

// EodService enforces the daily closing checkpoint. Days must be closed in
// strict chronological order; a day with open orders cannot be closed.
type EodService struct {
	pool     TxBeginner
	newStore NewEodStore
}

// NewEodService creates a new EodService.
func NewEodService(pool TxBeginner, newStore NewEodStore) *EodService {
	return &EodService{pool: pool, newStore: newStore}
}

// EodStatus describes what stands between now and closing the target date.
type EodStatus struct {
	// PendingDates are dates up to the target that have orders but no
	// completed end of day. These block closure.
	PendingDates []time.Time
	// GapDates are dates in the range with neither orders nor an end of
	// day row, e.g. days the restaurant was closed.
	GapDates []time.Time
	// ActiveOrders are the currently open orders for the business.
	ActiveOrders []database.Order
	// Completed is the end-of-day row for the target date, if one exists.
	Completed *database.EndOfDay
}

// GetEndOfDay reports the closure status for the target date. Today is
// always excluded from the pending set since it cannot be closed while
// still in progress.
func (s *EodService) GetEndOfDay(ctx context.Context, pool database.DBTX, businessID uuid.UUID, target time.Time) (*EodStatus, error) {
	store := s.newStore(pool)
	target = dateOnly(target)
	today := dateOnly(time.Now())

	orderDates, err := store.ListOrderDatesUpTo(ctx, database.ListOrderDatesUpToParams{
		BusinessID: businessID,
		TicketDate: pgtype.Date{Time: target, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("list order dates: %w", err)
	}
	eodDates, err := store.ListEodDatesUpTo(ctx, database.ListEodDatesUpToParams{
		BusinessID: businessID,
		EodDate:    pgtype.Date{Time: target, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("list eod dates: %w", err)
	}

	closed := make(map[time.Time]bool, len(eodDates))
	for _, d := range eodDates {
		closed[dateOnly(d.Time)] = true
	}
	hasOrders := make(map[time.Time]bool, len(orderDates))
	var pending []time.Time
	for _, d := range orderDates {
		day := dateOnly(d.Time)
		hasOrders[day] = true
		if !closed[day] && !day.Equal(today) {
			pending = append(pending, day)
		}
	}

	var gaps []time.Time
	if len(orderDates) > 0 {
		for day := dateOnly(orderDates[0].Time); day.Before(target); day = day.AddDate(0, 0, 1) {
			if !hasOrders[day] && !closed[day] {
				gaps = append(gaps, day)
			}
		}
	}

	active, err := store.ListActiveOrders(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}

	status := &EodStatus{PendingDates: pending, GapDates: gaps, ActiveOrders: active}
	eod, err := store.GetEndOfDay(ctx, database.GetEndOfDayParams{
		BusinessID: businessID,
		EodDate:    pgtype.Date{Time: target, Valid: true},
	})
	if err == nil {
		status.Completed = &eod
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get end of day: %w", err)
	}
	return status, nil
}

// MakeEndOfDay closes the target date. It fails when an earlier date with
// orders is still unclosed, or when any non-completed order falls inside
// the target day. A day with zero orders closes fine (no-sale day). Totals
// are recomputed from the billing engine at close time, not read from
// snapshots.
func (s *EodService) MakeEndOfDay(ctx context.Context, businessID uuid.UUID, target time.Time, employeeID uuid.UUID, notes string) (*database.EndOfDay, error) {
	target = dateOnly(target)
	today := dateOnly(time.Now())
	if target.After(today) {
		return nil, ErrFutureEodDate
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	orderDates, err := store.ListOrderDatesUpTo(ctx, database.ListOrderDatesUpToParams{
		BusinessID: businessID,
		TicketDate: pgtype.Date{Time: target, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("list order dates: %w", err)
	}
	eodDates, err := store.ListEodDatesUpTo(ctx, database.ListEodDatesUpToParams{
		BusinessID: businessID,
		EodDate:    pgtype.Date{Time: target, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("list eod dates: %w", err)
	}
	closed := make(map[time.Time]bool, len(eodDates))
	for _, d := range eodDates {
		closed[dateOnly(d.Time)] = true
	}
	for _, d := range orderDates {
		day := dateOnly(d.Time)
		if day.Before(target) && !closed[day] {
			return nil, ErrPendingPriorDates
		}
	}

	dayStart := target
	dayEnd := target.AddDate(0, 0, 1)
	active, err := store.CountActiveOrdersInRange(ctx, database.CountActiveOrdersInRangeParams{
		BusinessID: businessID,
		StartAt:    dayStart,
		EndAt:      dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("count active orders: %w", err)
	}
	if active > 0 {
		return nil, ErrActiveOrdersExist
	}

	completed, err := store.ListCompletedOrdersInRange(ctx, database.ListCompletedOrdersInRangeParams{
		BusinessID: businessID,
		StartAt:    dayStart,
		EndAt:      dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("list completed orders: %w", err)
	}

	business, err := store.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	totalSales := decimal.Zero
	for _, order := range completed {
		total, err := s.orderTotal(ctx, store, business, order)
		if err != nil {
			return nil, err
		}
		totalSales = totalSales.Add(total)
	}

	notesText := pgtype.Text{}
	if notes != "" {
		notesText = pgtype.Text{String: notes, Valid: true}
	}
	eod, err := store.UpsertEndOfDay(ctx, database.UpsertEndOfDayParams{
		BusinessID:  businessID,
		EodDate:     pgtype.Date{Time: target, Valid: true},
		TotalSales:  money.ToNumeric(totalSales),
		TotalOrders: int32(len(completed)),
		CompletedBy: employeeID,
		Notes:       notesText,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert end of day: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &eod, nil
}

// orderTotal reruns the billing engine for one completed order.
func (s *EodService) orderTotal(ctx context.Context, store EodStore, business database.Business, order database.Order) (decimal.Decimal, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list items: %w", err)
	}
	mods, err := store.ListOrderItemModifiersByOrder(ctx, order.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list modifiers: %w", err)
	}
	payments, err := store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list payments: %w", err)
	}

	modsByItem := make(map[uuid.UUID][]billing.ItemModifier)
	for _, m := range mods {
		modsByItem[m.OrderItemID] = append(modsByItem[m.OrderItemID], billing.ItemModifier{
			Price:    money.FromNumeric(m.UnitPrice),
			Quantity: m.Quantity,
		})
	}
	in := billing.Input{
		Gratuity: billing.Gratuity{
			Key:   order.GratuityKey,
			Type:  order.GratuityType.String,
			Value: money.FromNumeric(order.GratuityValue),
		},
		Business: billing.BusinessConfig{
			TaxRatePercent: money.FromNumeric(business.TaxRatePercent),
			FeePercent:     money.FromNumeric(business.FeePercent),
			GratuityType:   business.GratuityType.String,
			GratuityValue:  money.FromNumeric(business.GratuityValue),
		},
	}
	for _, item := range items {
		in.Items = append(in.Items, billing.Item{
			Status:         item.ItemStatus,
			UnitPrice:      money.FromNumeric(item.UnitPrice),
			Quantity:       item.Quantity,
			DiscountAmount: money.FromNumeric(item.DiscountAmount),
			Modifiers:      modsByItem[item.ID],
		})
	}
	for _, p := range payments {
		in.Payments = append(in.Payments, billing.Payment{
			Amount: money.FromNumeric(p.Amount),
			Status: p.Status,
		})
	}
	return billing.Compute(in).TotalBill, nil
}

// dateOnly truncates to UTC midnight of the calendar day. pgtype.Date
// scans as a UTC midnight, so every date comparison has to live in UTC
// or same-day values land on different instants on non-UTC servers.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
