package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/billing"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/enum"
	"github.com/sajipos/api/internal/money"
)

// Errors returned by the payment service.
var (
	ErrPaymentNotFound        = errors.New("payment not found on order")
	ErrInvalidAmount          = errors.New("amount must be > 0")
	ErrInvalidPaymentMode     = errors.New("payment_mode is required")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")
	ErrInvalidTipType         = errors.New("invalid tip_type")
	ErrNotRefundable          = errors.New("payment is not refundable")
	ErrAlreadyFullyRefunded   = errors.New("payment already fully refunded")
	ErrRefundExceedsAvailable = errors.New("refund amount exceeds refundable balance")
)

// PaymentStore defines the DB methods needed by the payment service.
// Satisfied by *database.Queries (and its WithTx variant).
type PaymentStore interface {
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	GetOrderByTicketID(ctx context.Context, arg database.GetOrderByTicketIDParams) (database.Order, error)
	GetCheckByOrder(ctx context.Context, orderID uuid.UUID) (database.Check, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (database.Business, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemModifier, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.PaymentHistory, error)
	CreatePaymentHistory(ctx context.Context, arg database.CreatePaymentHistoryParams) (database.PaymentHistory, error)
	GetPaymentHistory(ctx context.Context, arg database.GetPaymentHistoryParams) (database.PaymentHistory, error)
	UpdatePaymentStatus(ctx context.Context, arg database.UpdatePaymentStatusParams) (database.PaymentHistory, error)
	SumRefundsAgainstPayment(ctx context.Context, refundedPaymentID pgtype.UUID) (pgtype.Numeric, error)
	SetPaymentIsRefund(ctx context.Context, arg database.SetPaymentIsRefundParams) error
	UpdateOrderBillingSnapshot(ctx context.Context, arg database.UpdateOrderBillingSnapshotParams) error
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateCheckStatusByOrder(ctx context.Context, arg database.UpdateCheckStatusByOrderParams) error
}

// NewPaymentStore creates a PaymentStore from a DBTX (pool or tx).
type NewPaymentStore func(db database.DBTX) PaymentStore

// PaymentService handles the append-only payment ledger and bill queries.
type PaymentService struct {
	pool     TxBeginner
	newStore NewPaymentStore
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(pool TxBeginner, newStore NewPaymentStore) *PaymentService {
	return &PaymentService{pool: pool, newStore: newStore}
}

// BillingSnapshot is the billing result for a ticket plus its ledger.
type BillingSnapshot struct {
	Order    database.Order
	Bill     billing.Bill
	Payments []database.PaymentHistory
}

// Bill recomputes the ticket's bill from scratch and persists the tax/fee
// snapshot onto the order. Recomputing on every read is intentional: items,
// discounts, and settings can change between reads, so nothing is cached.
func (s *PaymentService) Bill(ctx context.Context, pool database.DBTX, businessID uuid.UUID, ticketID string) (*BillingSnapshot, error) {
	store := s.newStore(pool)
	order, err := store.GetOrderByTicketID(ctx, database.GetOrderByTicketIDParams{
		TicketID:   ticketID,
		BusinessID: businessID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return s.computeBill(ctx, store, order)
}

// computeBill loads the billing input for the order, runs the engine, and
// writes the tax/fee snapshot back. Same inputs always yield the same
// snapshot, so racing recomputes are harmless.
func (s *PaymentService) computeBill(ctx context.Context, store PaymentStore, order database.Order) (*BillingSnapshot, error) {
	business, err := store.GetBusiness(ctx, order.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	mods, err := store.ListOrderItemModifiersByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list modifiers: %w", err)
	}
	payments, err := store.ListPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
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

	bill := billing.Compute(in)

	if err := store.UpdateOrderBillingSnapshot(ctx, database.UpdateOrderBillingSnapshotParams{
		ID:       order.ID,
		TaxValue: money.ToNumeric(bill.TaxAmount),
		FeeValue: money.ToNumeric(bill.FeeAmount),
	}); err != nil {
		return nil, fmt.Errorf("persist billing snapshot: %w", err)
	}

	return &BillingSnapshot{Order: order, Bill: bill, Payments: payments}, nil
}

// ProcessPaymentRequest covers both recording a new payment attempt and
// updating the status of an existing one.
type ProcessPaymentRequest struct {
	BusinessID        uuid.UUID
	TicketID          string
	EmployeeID        uuid.UUID
	Amount            string
	PaymentMode       string
	Status            string
	TipType           string
	TipValue          string
	Comment           string
	FailureReason     string
	ExistingPaymentID string
}

// ProcessPayment records a payment attempt on the ledger, or mutates the
// status of an existing row when ExistingPaymentID is set. New rows capture
// the bill totals as of this moment, so the ledger stays a valid audit trail
// even after later recalculation. There is deliberately no ceiling check
// against the remaining balance: tendering more cash than owed is a normal
// workflow.
func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*BillingSnapshot, error) {
	switch req.Status {
	case enum.PaymentStatusCompleted, enum.PaymentStatusFailed, enum.PaymentStatusCancelled:
	default:
		return nil, ErrInvalidPaymentStatus
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

	if req.ExistingPaymentID != "" {
		order, err = s.updatePaymentStatus(ctx, store, order, req)
	} else {
		err = s.createPayment(ctx, store, order, req)
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := s.computeBill(ctx, store, order)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return snapshot, nil
}

func (s *PaymentService) createPayment(ctx context.Context, store PaymentStore, order database.Order, req ProcessPaymentRequest) error {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if req.PaymentMode == "" {
		return ErrInvalidPaymentMode
	}

	tipType := pgtype.Text{}
	tipValue := decimal.Zero
	tipAmount := decimal.Zero
	if req.TipType != "" {
		tipValue, err = decimalFromInput(req.TipValue)
		if err != nil || tipValue.IsNegative() {
			return ErrInvalidTipType
		}
		switch req.TipType {
		case enum.TipTypePercentage:
			tipAmount = money.Round2(money.Percent(amount, tipValue))
		case enum.TipTypeFixed:
			tipAmount = money.Round2(tipValue)
		default:
			return ErrInvalidTipType
		}
		tipType = pgtype.Text{String: req.TipType, Valid: true}
	}

	check, err := store.GetCheckByOrder(ctx, order.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCheckNotFound
		}
		return fmt.Errorf("get check: %w", err)
	}

	// Bill as of right now, before this attempt lands on the ledger.
	before, err := s.computeBill(ctx, store, order)
	if err != nil {
		return err
	}

	comment := pgtype.Text{}
	if req.Comment != "" {
		comment = pgtype.Text{String: req.Comment, Valid: true}
	}
	failureReason := pgtype.Text{}
	if req.FailureReason != "" {
		failureReason = pgtype.Text{String: req.FailureReason, Valid: true}
	}

	if _, err := store.CreatePaymentHistory(ctx, database.CreatePaymentHistoryParams{
		OrderID:          order.ID,
		CheckID:          check.ID,
		EmployeeID:       req.EmployeeID,
		Amount:           money.ToNumeric(amount),
		PaymentMode:      req.PaymentMode,
		Status:           req.Status,
		TipType:          tipType,
		TipValue:         money.ToNumeric(tipValue),
		TipAmount:        money.ToNumeric(tipAmount),
		Comment:          comment,
		FailureReason:    failureReason,
		TotalBillAmount:  money.ToNumeric(before.Bill.TotalBill),
		RemainingAmount:  money.ToNumeric(before.Bill.RemainingAmount),
		PaidAmountBefore: money.ToNumeric(before.Bill.PaidAmount),
	}); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// updatePaymentStatus mutates only status and failure_reason on an existing
// row. Downgrading a completed payment on a completed order reopens the
// order and its check, modelling "undo a mistaken close".
func (s *PaymentService) updatePaymentStatus(ctx context.Context, store PaymentStore, order database.Order, req ProcessPaymentRequest) (database.Order, error) {
	paymentID, err := uuid.Parse(req.ExistingPaymentID)
	if err != nil {
		return order, ErrPaymentNotFound
	}
	existing, err := store.GetPaymentHistory(ctx, database.GetPaymentHistoryParams{ID: paymentID, OrderID: order.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order, ErrPaymentNotFound
		}
		return order, fmt.Errorf("get payment: %w", err)
	}

	failureReason := pgtype.Text{}
	if req.FailureReason != "" {
		failureReason = pgtype.Text{String: req.FailureReason, Valid: true}
	}
	if _, err := store.UpdatePaymentStatus(ctx, database.UpdatePaymentStatusParams{
		ID:            existing.ID,
		OrderID:       order.ID,
		Status:        req.Status,
		FailureReason: failureReason,
	}); err != nil {
		return order, fmt.Errorf("update payment status: %w", err)
	}

	downgraded := existing.Status == enum.PaymentStatusCompleted && req.Status != enum.PaymentStatusCompleted
	if downgraded && order.Status == enum.OrderStatusCompleted {
		reopened, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
			ID:     order.ID,
			Status: enum.OrderStatusOpen,
		})
		if err != nil {
			return order, fmt.Errorf("reopen order: %w", err)
		}
		if err := store.UpdateCheckStatusByOrder(ctx, database.UpdateCheckStatusByOrderParams{
			OrderID: order.ID,
			Status:  enum.CheckStatusOpen,
		}); err != nil {
			return order, fmt.Errorf("reopen check: %w", err)
		}
		// The table is not re-occupied on reopen; only the order and check
		// state roll back.
		return reopened, nil
	}
	return order, nil
}

// ProcessRefundRequest refunds part or all of a completed payment.
type ProcessRefundRequest struct {
	BusinessID uuid.UUID
	TicketID   string
	EmployeeID uuid.UUID
	PaymentID  uuid.UUID
	Amount     string
	Reason     string
	Mode       string
	Comment    string
}

// ProcessRefund appends a refund row against a completed payment. Partial
// refunds are repeatable until the original amount is exhausted; the
// original row's payment_is_refund flag flips only once fully refunded.
// Refund rows are terminal and can never themselves be refunded. Tips are
// never refunded.
func (s *PaymentService) ProcessRefund(ctx context.Context, req ProcessRefundRequest) (*BillingSnapshot, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.Mode == "" {
		return nil, ErrInvalidPaymentMode
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

	original, err := store.GetPaymentHistory(ctx, database.GetPaymentHistoryParams{ID: req.PaymentID, OrderID: order.ID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if original.Status != enum.PaymentStatusCompleted || original.RefundedPaymentID.Valid {
		return nil, ErrNotRefundable
	}

	originalAmount := money.FromNumeric(original.Amount)
	refunded, err := store.SumRefundsAgainstPayment(ctx, pgtype.UUID{Bytes: original.ID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("sum refunds: %w", err)
	}
	alreadyRefunded := money.FromNumeric(refunded)
	if alreadyRefunded.GreaterThanOrEqual(originalAmount) {
		return nil, ErrAlreadyFullyRefunded
	}
	if amount.GreaterThan(originalAmount.Sub(alreadyRefunded)) {
		return nil, ErrRefundExceedsAvailable
	}

	before, err := s.computeBill(ctx, store, order)
	if err != nil {
		return nil, err
	}

	comment := pgtype.Text{}
	if req.Comment != "" {
		comment = pgtype.Text{String: req.Comment, Valid: true}
	}
	if _, err := store.CreatePaymentHistory(ctx, database.CreatePaymentHistoryParams{
		OrderID:           order.ID,
		CheckID:           original.CheckID,
		EmployeeID:        req.EmployeeID,
		Amount:            money.ToNumeric(amount),
		PaymentMode:       req.Mode,
		Status:            enum.PaymentStatusRefunded,
		TipValue:          money.ToNumeric(decimal.Zero),
		TipAmount:         money.ToNumeric(decimal.Zero),
		RefundedPaymentID: pgtype.UUID{Bytes: original.ID, Valid: true},
		RefundReason:      pgtype.Text{String: req.Reason, Valid: true},
		Comment:           comment,
		TotalBillAmount:   money.ToNumeric(before.Bill.TotalBill),
		RemainingAmount:   money.ToNumeric(before.Bill.RemainingAmount),
		PaidAmountBefore:  money.ToNumeric(before.Bill.PaidAmount),
	}); err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}

	if alreadyRefunded.Add(amount).GreaterThanOrEqual(originalAmount) {
		if err := store.SetPaymentIsRefund(ctx, database.SetPaymentIsRefundParams{
			ID:              original.ID,
			PaymentIsRefund: true,
		}); err != nil {
			return nil, fmt.Errorf("flag refunded payment: %w", err)
		}
	}

	snapshot, err := s.computeBill(ctx, store, order)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return snapshot, nil
}
