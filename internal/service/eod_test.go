package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/enum"
)

// fakeEodStore layers the end-of-day ledger on top of fakePaymentStore,
// which already covers the business/order/item/payment loads.
type fakeEodStore struct {
	*fakePaymentStore

	eods map[time.Time]database.EndOfDay
}

func newFakeEodStore(taxPercent string) *fakeEodStore {
	return &fakeEodStore{
		fakePaymentStore: newFakePaymentStore(taxPercent, "0"),
		eods:             make(map[time.Time]database.EndOfDay),
	}
}

func (f *fakeEodStore) addOrderOn(day time.Time, status, ticketID string) database.Order {
	o := f.addOrder(f.business.ID, ticketID)
	stored := f.orders[o.ID]
	stored.TicketDate = pgtype.Date{Time: day, Valid: true}
	stored.Status = status
	f.orders[o.ID] = stored
	return stored
}

func (f *fakeEodStore) ListOrderDatesUpTo(ctx context.Context, arg database.ListOrderDatesUpToParams) ([]pgtype.Date, error) {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, o := range f.orders {
		day := dateOnly(o.TicketDate.Time)
		if o.BusinessID == arg.BusinessID && !day.After(dateOnly(arg.TicketDate.Time)) && !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	out := make([]pgtype.Date, len(days))
	for i, d := range days {
		out[i] = pgtype.Date{Time: d, Valid: true}
	}
	return out, nil
}

func (f *fakeEodStore) ListEodDatesUpTo(ctx context.Context, arg database.ListEodDatesUpToParams) ([]pgtype.Date, error) {
	var out []pgtype.Date
	for day := range f.eods {
		if !day.After(dateOnly(arg.EodDate.Time)) {
			out = append(out, pgtype.Date{Time: day, Valid: true})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (f *fakeEodStore) CountActiveOrdersInRange(ctx context.Context, arg database.CountActiveOrdersInRangeParams) (int64, error) {
	var n int64
	for _, o := range f.orders {
		day := dateOnly(o.TicketDate.Time)
		if o.BusinessID == arg.BusinessID && o.Status != enum.OrderStatusCompleted &&
			!day.Before(arg.StartAt) && day.Before(arg.EndAt) {
			n++
		}
	}
	return n, nil
}

func (f *fakeEodStore) ListCompletedOrdersInRange(ctx context.Context, arg database.ListCompletedOrdersInRangeParams) ([]database.Order, error) {
	var out []database.Order
	for _, o := range f.orders {
		day := dateOnly(o.TicketDate.Time)
		if o.BusinessID == arg.BusinessID && o.Status == enum.OrderStatusCompleted &&
			!day.Before(arg.StartAt) && day.Before(arg.EndAt) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeEodStore) GetEndOfDay(ctx context.Context, arg database.GetEndOfDayParams) (database.EndOfDay, error) {
	eod, ok := f.eods[dateOnly(arg.EodDate.Time)]
	if !ok || eod.BusinessID != arg.BusinessID {
		return database.EndOfDay{}, pgx.ErrNoRows
	}
	return eod, nil
}

func (f *fakeEodStore) UpsertEndOfDay(ctx context.Context, arg database.UpsertEndOfDayParams) (database.EndOfDay, error) {
	day := dateOnly(arg.EodDate.Time)
	eod := database.EndOfDay{
		ID:          uuid.New(),
		BusinessID:  arg.BusinessID,
		EodDate:     pgtype.Date{Time: day, Valid: true},
		Status:      "COMPLETED",
		TotalSales:  arg.TotalSales,
		TotalOrders: arg.TotalOrders,
		CompletedBy: arg.CompletedBy,
		CompletedAt: time.Now(),
		Notes:       arg.Notes,
	}
	f.eods[day] = eod
	return eod, nil
}

func newEodService(store *fakeEodStore) *EodService {
	pool := &mockTxBeginner{tx: &mockTx{}}
	return NewEodService(pool, func(db database.DBTX) EodStore { return store })
}

func daysAgo(n int) time.Time {
	return dateOnly(time.Now().AddDate(0, 0, -n))
}

// =====================
// MakeEndOfDay
// =====================

func TestMakeEndOfDay_FutureDate(t *testing.T) {
	store := newFakeEodStore("0")
	svc := newEodService(store)

	_, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(-1), uuid.New(), "")
	if !errors.Is(err, ErrFutureEodDate) {
		t.Fatalf("expected ErrFutureEodDate, got: %v", err)
	}
}

func TestMakeEndOfDay_StrictChronology(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(2), enum.OrderStatusCompleted, "20250101-001")
	store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-001")
	svc := newEodService(store)

	// yesterday cannot close while the day before it is still open
	_, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), "")
	if !errors.Is(err, ErrPendingPriorDates) {
		t.Fatalf("expected ErrPendingPriorDates, got: %v", err)
	}

	if _, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(2), uuid.New(), ""); err != nil {
		t.Fatalf("close day -2: %v", err)
	}
	if _, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), ""); err != nil {
		t.Fatalf("close day -1 after day -2: %v", err)
	}
}

func TestMakeEndOfDay_ActiveOrdersBlock(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(1), enum.OrderStatusSentToKitchen, "20250102-001")
	svc := newEodService(store)

	_, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), "")
	if !errors.Is(err, ErrActiveOrdersExist) {
		t.Fatalf("expected ErrActiveOrdersExist, got: %v", err)
	}
}

func TestMakeEndOfDay_TotalsRecomputedFromEngine(t *testing.T) {
	store := newFakeEodStore("10")
	a := store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-001")
	b := store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-002")
	store.addItem(a.ID, enum.ItemStatusFire, "20.00", 1) // 22.00 with tax
	store.addItem(b.ID, enum.ItemStatusFire, "15.50", 1) // 17.05 with tax
	store.addItem(b.ID, enum.ItemStatusVoid, "99.00", 1) // voided, excluded
	svc := newEodService(store)

	eod, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), "smooth shift")
	if err != nil {
		t.Fatalf("MakeEndOfDay: %v", err)
	}
	if !numericEquals(eod.TotalSales, "39.05") {
		t.Errorf("total sales = %v, want 22.00 + 17.05 = 39.05", eod.TotalSales)
	}
	if eod.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", eod.TotalOrders)
	}
	if !eod.Notes.Valid || eod.Notes.String != "smooth shift" {
		t.Errorf("notes = %+v", eod.Notes)
	}
}

func TestMakeEndOfDay_TargetZoneIrrelevant(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-001")
	svc := newEodService(store)

	// order dates scan from the DB as UTC midnights; a target carrying a
	// UTC-negative zone must still match the same calendar day
	west := time.FixedZone("UTC-5", -5*60*60)
	d := daysAgo(1)
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, west)

	eod, err := svc.MakeEndOfDay(context.Background(), store.business.ID, target, uuid.New(), "")
	if err != nil {
		t.Fatalf("close with zone-shifted target: %v", err)
	}
	if !eod.EodDate.Time.Equal(daysAgo(1)) {
		t.Errorf("eod date = %v, want %v", eod.EodDate.Time, daysAgo(1))
	}
}

func TestMakeEndOfDay_NoSaleDayCloses(t *testing.T) {
	store := newFakeEodStore("0")
	svc := newEodService(store)

	eod, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), "")
	if err != nil {
		t.Fatalf("a day with zero orders should close: %v", err)
	}
	if !numericEquals(eod.TotalSales, "0.00") {
		t.Errorf("total sales = %v, want 0", eod.TotalSales)
	}
	if eod.TotalOrders != 0 {
		t.Errorf("total orders = %d, want 0", eod.TotalOrders)
	}
}

func TestMakeEndOfDay_Reclose(t *testing.T) {
	store := newFakeEodStore("0")
	a := store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-001")
	store.addItem(a.ID, enum.ItemStatusFire, "10.00", 1)
	svc := newEodService(store)

	if _, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), ""); err != nil {
		t.Fatalf("first close: %v", err)
	}
	// a later order lands on the day (e.g. a reopened ticket); reclosing refreshes
	b := store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250102-002")
	store.addItem(b.ID, enum.ItemStatusFire, "5.00", 1)

	eod, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), "")
	if err != nil {
		t.Fatalf("reclose: %v", err)
	}
	if !numericEquals(eod.TotalSales, "15.00") {
		t.Errorf("total sales after reclose = %v, want 15.00", eod.TotalSales)
	}
	if eod.TotalOrders != 2 {
		t.Errorf("total orders after reclose = %d, want 2", eod.TotalOrders)
	}
}

// =====================
// GetEndOfDay
// =====================

func TestGetEndOfDay_PendingAndGapDates(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(3), enum.OrderStatusCompleted, "20250101-001")
	store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250103-001")
	svc := newEodService(store)

	if _, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(3), uuid.New(), ""); err != nil {
		t.Fatalf("close day -3: %v", err)
	}

	status, err := svc.GetEndOfDay(context.Background(), nil, store.business.ID, daysAgo(0))
	if err != nil {
		t.Fatalf("GetEndOfDay: %v", err)
	}

	if len(status.PendingDates) != 1 || !status.PendingDates[0].Equal(daysAgo(1)) {
		t.Errorf("pending = %v, want [day -1]", status.PendingDates)
	}
	// day -2 had neither orders nor a close: the restaurant was shut
	if len(status.GapDates) != 1 || !status.GapDates[0].Equal(daysAgo(2)) {
		t.Errorf("gaps = %v, want [day -2]", status.GapDates)
	}
	if status.Completed != nil {
		t.Errorf("today should have no completed row yet")
	}
}

func TestGetEndOfDay_TodayNeverPending(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(0), enum.OrderStatusSentToKitchen, "20250104-001")
	svc := newEodService(store)

	status, err := svc.GetEndOfDay(context.Background(), nil, store.business.ID, daysAgo(0))
	if err != nil {
		t.Fatalf("GetEndOfDay: %v", err)
	}
	if len(status.PendingDates) != 0 {
		t.Errorf("pending = %v, today must be excluded", status.PendingDates)
	}
	if len(status.ActiveOrders) != 1 {
		t.Errorf("active orders = %d, want 1", len(status.ActiveOrders))
	}
}

func TestGetEndOfDay_ReportsCompletedRow(t *testing.T) {
	store := newFakeEodStore("0")
	store.addOrderOn(daysAgo(1), enum.OrderStatusCompleted, "20250103-001")
	svc := newEodService(store)

	if _, err := svc.MakeEndOfDay(context.Background(), store.business.ID, daysAgo(1), uuid.New(), ""); err != nil {
		t.Fatalf("close: %v", err)
	}

	status, err := svc.GetEndOfDay(context.Background(), nil, store.business.ID, daysAgo(1))
	if err != nil {
		t.Fatalf("GetEndOfDay: %v", err)
	}
	if status.Completed == nil {
		t.Fatal("expected the completed end-of-day row")
	}
	if status.Completed.Status != "COMPLETED" {
		t.Errorf("status = %s", status.Completed.Status)
	}
	if len(status.PendingDates) != 0 {
		t.Errorf("pending = %v, want none", status.PendingDates)
	}
}
