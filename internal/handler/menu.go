package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sajipos/api/internal/database"
	"github.com/sajipos/api/internal/menu"
	"github.com/sajipos/api/internal/money"
)

// MenuHandler serves the menu snapshot for waiter devices.
type MenuHandler struct {
	store menu.Store
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store menu.Store) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
// Expected to be mounted inside a business-scoped subrouter: /businesses/{bid}/menu
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Snapshot)
}

// --- Response types ---

// Categories come out flat with parent_id and depth; the device rebuilds
// whatever nesting its UI needs.
type menuCategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Name      string     `json:"name"`
	SortOrder int32      `json:"sort_order"`
	Depth     int        `json:"depth"`
}

type menuItemResponse struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	Price      string     `json:"price"`
	PrinterID  *uuid.UUID `json:"printer_id"`
}

type menuModifierResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

type menuDecisionResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type menuSnapshotResponse struct {
	Categories []menuCategoryResponse `json:"categories"`
	Items      []menuItemResponse     `json:"items"`
	Modifiers  []menuModifierResponse `json:"modifiers"`
	Decisions  []menuDecisionResponse `json:"decisions"`
}

// --- Handlers ---

// Snapshot returns the full menu: category tree in display order, active
// items, modifiers, and decisions.
func (h *MenuHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	businessID, ok := businessIDFromRequest(w, r)
	if !ok {
		return
	}

	snap, err := menu.BuildSnapshot(r.Context(), h.store, businessID)
	if err != nil {
		log.Printf("ERROR: failed to build menu snapshot: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := menuSnapshotResponse{
		Categories: make([]menuCategoryResponse, 0, len(snap.Tree.Nodes)),
		Items:      make([]menuItemResponse, 0, len(snap.Items)),
		Modifiers:  make([]menuModifierResponse, 0, len(snap.Modifiers)),
		Decisions:  make([]menuDecisionResponse, 0, len(snap.Decisions)),
	}

	snap.Tree.Walk(func(idx, depth int) {
		cat := snap.Tree.Nodes[idx].Category
		cr := menuCategoryResponse{
			ID:        cat.ID,
			Name:      cat.Name,
			SortOrder: cat.SortOrder,
			Depth:     depth,
		}
		if cat.ParentID.Valid {
			id := uuid.UUID(cat.ParentID.Bytes)
			cr.ParentID = &id
		}
		resp.Categories = append(resp.Categories, cr)
	})

	for _, item := range snap.Items {
		resp.Items = append(resp.Items, toMenuItemResponse(item))
	}
	for _, mod := range snap.Modifiers {
		resp.Modifiers = append(resp.Modifiers, menuModifierResponse{
			ID:    mod.ID,
			Name:  mod.Name,
			Price: money.NumericString(mod.Price),
		})
	}
	for _, dec := range snap.Decisions {
		resp.Decisions = append(resp.Decisions, menuDecisionResponse{ID: dec.ID, Name: dec.Name})
	}

	writeJSON(w, http.StatusOK, resp)
}

func toMenuItemResponse(item database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:         item.ID,
		CategoryID: item.CategoryID,
		Name:       item.Name,
		Price:      money.NumericString(item.Price),
	}
	if item.PrinterID.Valid {
		id := uuid.UUID(item.PrinterID.Bytes)
		resp.PrinterID = &id
	}
	return resp
}
