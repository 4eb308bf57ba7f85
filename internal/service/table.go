package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/enum"
	"github.com/sajipos/api/internal/money"
)

const maxTicketSeqRetries = 3

// Errors returned by the table service.
var (
	ErrTableNotFound        = errors.New("table not found in business")
	ErrTableOccupied        = errors.New("table already occupied by an open order")
	ErrCapacityExceeded     = errors.New("customer count exceeds table capacity")
	ErrTableNotInMergedSet  = errors.New("table is not part of the order's merged set")
	ErrInvalidCustomerCount = errors.New("customer_count must be > 0")
	ErrInvalidGratuityKey   = errors.New("invalid gratuity_key")
	ErrInvalidGratuityType  = errors.New("invalid gratuity_type")
	ErrInvalidGratuityValue = errors.New("invalid gratuity_value")
)

// TableStore defines the DB methods needed by the table service.
// Satisfied by *database.Queries (and its WithTx variant).
type TableStore interface {
	GetTable(ctx context.Context, arg database.GetTableParams) (database.DiningTable, error)
	ListTablesByIDs(ctx context.Context, ids []uuid.UUID) ([]database.DiningTable, error)
	GetActiveOrderByTable(ctx context.Context, arg database.GetActiveOrderByTableParams) (database.Order, error)
	GetOrderByTicketID(ctx context.Context, arg database.GetOrderByTicketIDParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	GetNextTicketSeq(ctx context.Context, arg database.GetNextTicketSeqParams) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateCheck(ctx context.Context, orderID uuid.UUID) (database.Check, error)
	GetCheckByOrder(ctx context.Context, orderID uuid.UUID) (database.Check, error)
	UpdateCheckStatusByOrder(ctx context.Context, arg database.UpdateCheckStatusByOrderParams) error
	UpdateOrderTables(ctx context.Context, arg database.UpdateOrderTablesParams) (database.Order, error)
	ReassignOrderItemsToOrder(ctx context.Context, arg database.ReassignOrderItemsToOrderParams) error
	ReassignPaymentsToOrder(ctx context.Context, arg database.ReassignPaymentsToOrderParams) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	UpdateTableStatus(ctx context.Context, arg database.UpdateTableStatusParams) error
	ReleaseTable(ctx context.Context, id uuid.UUID) error
	SetTableLock(ctx context.Context, arg database.SetTableLockParams) error
	CreateTableSession(ctx context.Context, arg database.CreateTableSessionParams) (database.TableSession, error)
	GetLatestOpenSessionByOrder(ctx context.Context, orderID uuid.UUID) (database.TableSession, error)
	CloseOpenSessionsByOrder(ctx context.Context, orderID uuid.UUID) error
	ListFloors(ctx context.Context, businessID uuid.UUID) ([]database.Floor, error)
	ListTables(ctx context.Context, businessID uuid.UUID) ([]database.DiningTable, error)
}

// NewTableStore creates a TableStore from a DBTX (pool or tx).
type NewTableStore func(db database.DBTX) TableStore

// TableService handles the floor plan: reservations, merges, and the soft
// lock that attributes a table to the employee currently serving it.
type TableService struct {
	pool     TxBeginner
	newStore NewTableStore
}

// NewTableService creates a new TableService.
func NewTableService(pool TxBeginner, newStore NewTableStore) *TableService {
	return &TableService{pool: pool, newStore: newStore}
}

// ReserveTableRequest is the validated input for reserving a table.
type ReserveTableRequest struct {
	BusinessID    uuid.UUID
	TableID       uuid.UUID
	EmployeeID    uuid.UUID
	CustomerCount int32
	GratuityKey   string
	GratuityType  string
	GratuityValue string
}

// ReserveTableResult is the created order with its check.
type ReserveTableResult struct {
	Order database.Order
	Check database.Check
}

// ReserveTable seats a party: occupies the table, creates the order and its
// check, and opens an access-log session for the reserving employee.
// Retries up to maxTicketSeqRetries times on ticket sequence unique
// constraint violations (race where concurrent transactions get the same MAX).
func (s *TableService) ReserveTable(ctx context.Context, req ReserveTableRequest) (*ReserveTableResult, error) {
	if req.CustomerCount <= 0 {
		return nil, ErrInvalidCustomerCount
	}
	gratuityKey, gratuityType, gratuityValue, err := validateGratuity(req.GratuityKey, req.GratuityType, req.GratuityValue)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxTicketSeqRetries; attempt++ {
		result, err := s.reserveTableTx(ctx, req, gratuityKey, gratuityType, gratuityValue)
		if err == nil {
			return result, nil
		}
		if isTicketSeqConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (s *TableService) reserveTableTx(ctx context.Context, req ReserveTableRequest, gratuityKey string, gratuityType pgtype.Text, gratuityValue pgtype.Numeric) (*ReserveTableResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	table, err := store.GetTable(ctx, database.GetTableParams{ID: req.TableID, BusinessID: req.BusinessID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	// Occupied means an open order references the table, either as its main
	// table or through the merged set. The status column alone is not trusted
	// since ReleaseTable can reset it out of band.
	_, err = store.GetActiveOrderByTable(ctx, database.GetActiveOrderByTableParams{
		BusinessID: req.BusinessID,
		TableID:    req.TableID,
	})
	if err == nil {
		return nil, ErrTableOccupied
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check active order: %w", err)
	}

	if req.CustomerCount > table.Capacity {
		return nil, ErrCapacityExceeded
	}

	now := time.Now()
	ticketDate := pgtype.Date{Time: now, Valid: true}
	seq, err := store.GetNextTicketSeq(ctx, database.GetNextTicketSeqParams{
		BusinessID: req.BusinessID,
		TicketDate: ticketDate,
	})
	if err != nil {
		return nil, fmt.Errorf("get next ticket seq: %w", err)
	}
	ticketID := formatTicketID(now, seq)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		BusinessID:     req.BusinessID,
		TableID:        req.TableID,
		MergedTableIds: []uuid.UUID{req.TableID},
		TicketID:       ticketID,
		TicketDate:     ticketDate,
		TicketSeq:      seq,
		TicketTitle:    ticketTitle(ticketID, []string{table.Name}),
		CustomerCount:  req.CustomerCount,
		GratuityKey:    gratuityKey,
		GratuityType:   gratuityType,
		GratuityValue:  gratuityValue,
		CreatedBy:      req.EmployeeID,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	check, err := store.CreateCheck(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("create check: %w", err)
	}

	if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
		ID:     req.TableID,
		Status: enum.TableStatusOccupied,
	}); err != nil {
		return nil, fmt.Errorf("occupy table: %w", err)
	}
	if err := store.SetTableLock(ctx, database.SetTableLockParams{
		ID:       req.TableID,
		IsLocked: true,
		LockedBy: pgtype.UUID{Bytes: req.EmployeeID, Valid: true},
	}); err != nil {
		return nil, fmt.Errorf("lock table: %w", err)
	}

	if _, err := store.CreateTableSession(ctx, database.CreateTableSessionParams{
		OrderID:    order.ID,
		TableID:    req.TableID,
		EmployeeID: req.EmployeeID,
	}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ReserveTableResult{Order: order, Check: check}, nil
}

// isTicketSeqConflict checks if the error is a unique constraint violation
// on the per-day ticket sequence (pgconn error code 23505).
func isTicketSeqConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_business_id_ticket_date_ticket_seq_key"
	}
	return false
}

// ResumeOrderResult carries the resumed order plus who is now shown as
// serving it.
type ResumeOrderResult struct {
	Order    database.Order
	ServedBy uuid.UUID
}

// ResumeOrder reopens a ticket on a device. Locking here is advisory: any
// employee can always resume. If the table is unlocked, resuming locks it
// and takes over the access-log session; if it is already locked, only the
// served-by attribution is read back from the latest open session.
func (s *TableService) ResumeOrder(ctx context.Context, businessID uuid.UUID, ticketID string, employeeID uuid.UUID) (*ResumeOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

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

	table, err := store.GetTable(ctx, database.GetTableParams{ID: order.TableID, BusinessID: businessID})
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}

	servedBy := employeeID
	if !table.IsLocked {
		session, err := store.GetLatestOpenSessionByOrder(ctx, order.ID)
		switch {
		case err == nil && session.EmployeeID == employeeID:
			// same employee picks the order back up, session stays open
		case err == nil || errors.Is(err, pgx.ErrNoRows):
			if err := store.CloseOpenSessionsByOrder(ctx, order.ID); err != nil {
				return nil, fmt.Errorf("close sessions: %w", err)
			}
			if _, err := store.CreateTableSession(ctx, database.CreateTableSessionParams{
				OrderID:    order.ID,
				TableID:    order.TableID,
				EmployeeID: employeeID,
			}); err != nil {
				return nil, fmt.Errorf("create session: %w", err)
			}
		default:
			return nil, fmt.Errorf("get session: %w", err)
		}
		if err := store.SetTableLock(ctx, database.SetTableLockParams{
			ID:       order.TableID,
			IsLocked: true,
			LockedBy: pgtype.UUID{Bytes: employeeID, Valid: true},
		}); err != nil {
			return nil, fmt.Errorf("lock table: %w", err)
		}
	} else {
		session, err := store.GetLatestOpenSessionByOrder(ctx, order.ID)
		if err == nil {
			servedBy = session.EmployeeID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &ResumeOrderResult{Order: order, ServedBy: servedBy}, nil
}

// ChangeTable moves the whole order to a different table. The old merged set
// is released entirely and merged_table_ids collapses to just the new table.
func (s *TableService) ChangeTable(ctx context.Context, businessID uuid.UUID, ticketID string, newTableID uuid.UUID) (*database.Order, error) {
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

	newTable, err := store.GetTable(ctx, database.GetTableParams{ID: newTableID, BusinessID: businessID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	if err := s.ensureTableFree(ctx, store, businessID, newTableID, order.ID); err != nil {
		return nil, err
	}

	for _, id := range order.MergedTableIds {
		if id == newTableID {
			continue
		}
		if err := store.ReleaseTable(ctx, id); err != nil {
			return nil, fmt.Errorf("release table: %w", err)
		}
	}

	updated, err := store.UpdateOrderTables(ctx, database.UpdateOrderTablesParams{
		ID:             order.ID,
		TableID:        newTableID,
		MergedTableIds: []uuid.UUID{newTableID},
		TicketTitle:    ticketTitle(order.TicketID, []string{newTable.Name}),
	})
	if err != nil {
		return nil, fmt.Errorf("update order tables: %w", err)
	}
	if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
		ID:     newTableID,
		Status: enum.TableStatusOccupied,
	}); err != nil {
		return nil, fmt.Errorf("occupy table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &updated, nil
}

// ReplaceTable swaps one member of the merged set for a new table, keeping
// the other members in place.
func (s *TableService) ReplaceTable(ctx context.Context, businessID uuid.UUID, ticketID string, oldTableID, newTableID uuid.UUID) (*database.Order, error) {
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

	if !containsUUID(order.MergedTableIds, oldTableID) {
		return nil, ErrTableNotInMergedSet
	}
	if _, err := store.GetTable(ctx, database.GetTableParams{ID: newTableID, BusinessID: businessID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	if err := s.ensureTableFree(ctx, store, businessID, newTableID, order.ID); err != nil {
		return nil, err
	}

	merged := make([]uuid.UUID, 0, len(order.MergedTableIds))
	for _, id := range order.MergedTableIds {
		if id == oldTableID {
			merged = append(merged, newTableID)
		} else {
			merged = append(merged, id)
		}
	}
	mainTableID := order.TableID
	if mainTableID == oldTableID {
		mainTableID = newTableID
	}

	tables, err := store.ListTablesByIDs(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	updated, err := store.UpdateOrderTables(ctx, database.UpdateOrderTablesParams{
		ID:             order.ID,
		TableID:        mainTableID,
		MergedTableIds: merged,
		TicketTitle:    ticketTitle(order.TicketID, tableNames(tables)),
	})
	if err != nil {
		return nil, fmt.Errorf("update order tables: %w", err)
	}

	if err := store.ReleaseTable(ctx, oldTableID); err != nil {
		return nil, fmt.Errorf("release table: %w", err)
	}
	if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
		ID:     newTableID,
		Status: enum.TableStatusOccupied,
	}); err != nil {
		return nil, fmt.Errorf("occupy table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &updated, nil
}

// MergeTables absorbs the given tables into the ticket's order. A target
// table that carries its own active order donates everything it holds: its
// items and any payments already taken move to the main order, the donor
// check is marked MERGED, and the donor order row is deleted. Tables already
// in the merged set are skipped, so the operation is idempotent per table.
func (s *TableService) MergeTables(ctx context.Context, businessID uuid.UUID, ticketID string, tableIDs []uuid.UUID) (*database.Order, error) {
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
		return nil, fmt.Errorf("get check: %w", err)
	}

	merged := append([]uuid.UUID(nil), order.MergedTableIds...)
	for _, tableID := range tableIDs {
		if containsUUID(merged, tableID) {
			continue
		}
		if _, err := store.GetTable(ctx, database.GetTableParams{ID: tableID, BusinessID: businessID}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("get table: %w", err)
		}

		donor, err := store.GetActiveOrderByTable(ctx, database.GetActiveOrderByTableParams{
			BusinessID: businessID,
			TableID:    tableID,
		})
		switch {
		case err == nil && donor.ID != order.ID:
			if err := store.ReassignOrderItemsToOrder(ctx, database.ReassignOrderItemsToOrderParams{
				FromOrderID: donor.ID,
				ToOrderID:   order.ID,
				ToCheckID:   check.ID,
			}); err != nil {
				return nil, fmt.Errorf("reassign items: %w", err)
			}
			// payments reference the donor order, so they move too or the
			// delete below trips the foreign key
			if err := store.ReassignPaymentsToOrder(ctx, database.ReassignPaymentsToOrderParams{
				FromOrderID: donor.ID,
				ToOrderID:   order.ID,
				ToCheckID:   check.ID,
			}); err != nil {
				return nil, fmt.Errorf("reassign payments: %w", err)
			}
			if err := store.UpdateCheckStatusByOrder(ctx, database.UpdateCheckStatusByOrderParams{
				OrderID: donor.ID,
				Status:  enum.CheckStatusMerged,
			}); err != nil {
				return nil, fmt.Errorf("mark donor check merged: %w", err)
			}
			if err := store.CloseOpenSessionsByOrder(ctx, donor.ID); err != nil {
				return nil, fmt.Errorf("close donor sessions: %w", err)
			}
			if err := store.DeleteOrder(ctx, donor.ID); err != nil {
				return nil, fmt.Errorf("delete donor order: %w", err)
			}
		case err != nil && !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("check donor order: %w", err)
		}

		if err := store.UpdateTableStatus(ctx, database.UpdateTableStatusParams{
			ID:     tableID,
			Status: enum.TableStatusOccupied,
		}); err != nil {
			return nil, fmt.Errorf("occupy table: %w", err)
		}
		merged = append(merged, tableID)
	}

	tables, err := store.ListTablesByIDs(ctx, merged)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	updated, err := store.UpdateOrderTables(ctx, database.UpdateOrderTablesParams{
		ID:             order.ID,
		TableID:        order.TableID,
		MergedTableIds: merged,
		TicketTitle:    ticketTitle(order.TicketID, tableNames(tables)),
	})
	if err != nil {
		return nil, fmt.Errorf("update order tables: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &updated, nil
}

// ReleaseTable unconditionally resets a table to available and clears its
// lock. Manual recovery path: it bypasses order checks on purpose.
func (s *TableService) ReleaseTable(ctx context.Context, businessID, tableID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	if _, err := store.GetTable(ctx, database.GetTableParams{ID: tableID, BusinessID: businessID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTableNotFound
		}
		return fmt.Errorf("get table: %w", err)
	}
	if err := store.ReleaseTable(ctx, tableID); err != nil {
		return fmt.Errorf("release table: %w", err)
	}
	return tx.Commit(ctx)
}

// FloorPlan is the full floor/table listing for a business.
type FloorPlan struct {
	Floors []database.Floor
	Tables []database.DiningTable
}

// GetFloorPlan lists every floor and table for the business.
func (s *TableService) GetFloorPlan(ctx context.Context, pool database.DBTX, businessID uuid.UUID) (*FloorPlan, error) {
	store := s.newStore(pool)
	floors, err := store.ListFloors(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}
	tables, err := store.ListTables(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return &FloorPlan{Floors: floors, Tables: tables}, nil
}

// ensureTableFree fails ErrTableOccupied when a different non-completed
// order already holds the table.
func (s *TableService) ensureTableFree(ctx context.Context, store TableStore, businessID, tableID, selfOrderID uuid.UUID) error {
	existing, err := store.GetActiveOrderByTable(ctx, database.GetActiveOrderByTableParams{
		BusinessID: businessID,
		TableID:    tableID,
	})
	if err == nil && existing.ID != selfOrderID {
		return ErrTableOccupied
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check active order: %w", err)
	}
	return nil
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// validateGratuity normalizes the order-level gratuity selection. An empty
// key means no gratuity.
func validateGratuity(key, gratuityType, gratuityValue string) (string, pgtype.Text, pgtype.Numeric, error) {
	if key == "" {
		key = enum.GratuityKeyNotApplicable
	}
	switch key {
	case enum.GratuityKeyAuto, enum.GratuityKeyNotApplicable:
		return key, pgtype.Text{}, pgtype.Numeric{}, nil
	case enum.GratuityKeyManual:
	default:
		return "", pgtype.Text{}, pgtype.Numeric{}, ErrInvalidGratuityKey
	}

	switch gratuityType {
	case enum.GratuityTypePercentage, enum.GratuityTypeFixedMoney:
	default:
		return "", pgtype.Text{}, pgtype.Numeric{}, ErrInvalidGratuityType
	}
	value, err := decimalFromInput(gratuityValue)
	if err != nil || value.IsNegative() {
		return "", pgtype.Text{}, pgtype.Numeric{}, ErrInvalidGratuityValue
	}
	return key, pgtype.Text{String: gratuityType, Valid: true}, money.ToNumeric(value), nil
}
