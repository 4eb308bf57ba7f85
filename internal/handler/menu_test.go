package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/handler"
	"github.com/sajipos/api/internal/money"
	"github.com/shopspring/decimal"
)

// --- Mock store ---

type mockMenuStore struct {
	categories []database.MenuCategory
	items      []database.MenuItem
	modifiers  []database.Modifier
	decisions  []database.Decision
	err        error
}

func (m *mockMenuStore) ListMenuCategories(_ context.Context, _ uuid.UUID) ([]database.MenuCategory, error) {
	return m.categories, m.err
}

func (m *mockMenuStore) ListMenuItems(_ context.Context, _ uuid.UUID) ([]database.MenuItem, error) {
	return m.items, m.err
}

func (m *mockMenuStore) ListModifiers(_ context.Context, _ uuid.UUID) ([]database.Modifier, error) {
	return m.modifiers, m.err
}

func (m *mockMenuStore) ListDecisions(_ context.Context, _ uuid.UUID) ([]database.Decision, error) {
	return m.decisions, m.err
}

func newMenuHarness(t *testing.T, store *mockMenuStore) *businessHarness {
	t.Helper()
	h := handler.NewMenuHandler(store)
	return newBusinessHarness(t, func(r chi.Router) {
		r.Route("/menu", h.RegisterRoutes)
	})
}

func TestMenuSnapshot(t *testing.T) {
	businessID := uuid.New()
	food := database.MenuCategory{ID: uuid.New(), BusinessID: businessID, Name: "Food", SortOrder: 1}
	mains := database.MenuCategory{
		ID:         uuid.New(),
		BusinessID: businessID,
		ParentID:   pgtype.UUID{Bytes: food.ID, Valid: true},
		Name:       "Mains",
		SortOrder:  1,
	}
	drinks := database.MenuCategory{ID: uuid.New(), BusinessID: businessID, Name: "Drinks", SortOrder: 2}

	price := func(s string) pgtype.Numeric {
		d, _ := decimal.NewFromString(s)
		return money.ToNumeric(d)
	}
	store := &mockMenuStore{
		categories: []database.MenuCategory{drinks, food, mains},
		items: []database.MenuItem{
			{ID: uuid.New(), BusinessID: businessID, CategoryID: mains.ID, Name: "Nasi Goreng", Price: price("45000"), IsActive: true},
			{ID: uuid.New(), BusinessID: businessID, CategoryID: drinks.ID, Name: "Es Teh", Price: price("8000"), IsActive: true},
		},
		modifiers: []database.Modifier{
			{ID: uuid.New(), BusinessID: businessID, Name: "Extra Sambal", Price: price("3000")},
		},
		decisions: []database.Decision{
			{ID: uuid.New(), BusinessID: businessID, Name: "Spicy"},
		},
	}
	h := newMenuHarness(t, store)

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/menu/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)

	// Categories come out in display order: Food, Mains (child), Drinks.
	categories := resp["categories"].([]interface{})
	if len(categories) != 3 {
		t.Fatalf("categories: got %d, want 3", len(categories))
	}
	wantNames := []string{"Food", "Mains", "Drinks"}
	wantDepths := []float64{0, 1, 0}
	for i, raw := range categories {
		cat := raw.(map[string]interface{})
		if cat["name"] != wantNames[i] {
			t.Errorf("category[%d] name: got %v, want %s", i, cat["name"], wantNames[i])
		}
		if cat["depth"] != wantDepths[i] {
			t.Errorf("category[%d] depth: got %v, want %v", i, cat["depth"], wantDepths[i])
		}
	}
	if parent := categories[1].(map[string]interface{})["parent_id"]; parent != food.ID.String() {
		t.Errorf("Mains parent_id: got %v, want %v", parent, food.ID)
	}

	items := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2", len(items))
	}
	if p := items[0].(map[string]interface{})["price"]; p != "45000.00" {
		t.Errorf("item price: got %v, want 45000.00", p)
	}

	if got := len(resp["modifiers"].([]interface{})); got != 1 {
		t.Errorf("modifiers: got %d, want 1", got)
	}
	if got := len(resp["decisions"].([]interface{})); got != 1 {
		t.Errorf("decisions: got %d, want 1", got)
	}
}

func TestMenuSnapshot_InactiveItemsExcluded(t *testing.T) {
	businessID := uuid.New()
	cat := database.MenuCategory{ID: uuid.New(), BusinessID: businessID, Name: "Food", SortOrder: 1}
	store := &mockMenuStore{
		categories: []database.MenuCategory{cat},
		items: []database.MenuItem{
			{ID: uuid.New(), BusinessID: businessID, CategoryID: cat.ID, Name: "Retired Dish", IsActive: false},
		},
	}
	h := newMenuHarness(t, store)

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/menu/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if got := len(resp["items"].([]interface{})); got != 0 {
		t.Errorf("items: got %d, want 0 (inactive excluded)", got)
	}
	// The category survives even with no sellable items.
	if got := len(resp["categories"].([]interface{})); got != 1 {
		t.Errorf("categories: got %d, want 1", got)
	}
}

func TestMenuSnapshot_StoreFailure(t *testing.T) {
	store := &mockMenuStore{err: errors.New("connection reset")}
	h := newMenuHarness(t, store)

	rr := h.do(t, "GET", "/businesses/"+h.businessID.String()+"/menu/", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
