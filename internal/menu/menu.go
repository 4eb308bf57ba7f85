// Package menu assembles the menu snapshot served to waiter devices:
// the category tree, active items, modifiers, and decisions in one payload.
package menu

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sajipos/api/internal/database"
)

// Store defines the database methods needed to build a snapshot.
// Satisfied by *database.Queries.
type Store interface {
	ListMenuCategories(ctx context.Context, businessID uuid.UUID) ([]database.MenuCategory, error)
	ListMenuItems(ctx context.Context, businessID uuid.UUID) ([]database.MenuItem, error)
	ListModifiers(ctx context.Context, businessID uuid.UUID) ([]database.Modifier, error)
	ListDecisions(ctx context.Context, businessID uuid.UUID) ([]database.Decision, error)
}

// Node is one category in the tree. Parent and Children are indices into
// the tree's node slice, so the whole tree lives in one allocation and
// traversal never chases pointers.
type Node struct {
	Category database.MenuCategory
	Parent   int
	Children []int
}

// Tree is the category hierarchy stored as a flat arena of nodes.
type Tree struct {
	Nodes []Node
	roots []int
	byID  map[uuid.UUID]int
}

const noParent = -1

// BuildTree links categories into an arena tree. Categories whose parent is
// missing are treated as roots rather than dropped, so a bad parent_id never
// hides a subtree from the menu. Sibling order follows sort_order, then name.
func BuildTree(categories []database.MenuCategory) (*Tree, error) {
	t := &Tree{
		Nodes: make([]Node, 0, len(categories)),
		byID:  make(map[uuid.UUID]int, len(categories)),
	}

	for _, cat := range categories {
		if _, dup := t.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %s", cat.ID)
		}
		t.byID[cat.ID] = len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{Category: cat, Parent: noParent})
	}

	for i, node := range t.Nodes {
		if !node.Category.ParentID.Valid {
			t.roots = append(t.roots, i)
			continue
		}
		parentIdx, ok := t.byID[uuid.UUID(node.Category.ParentID.Bytes)]
		if !ok || parentIdx == i {
			t.roots = append(t.roots, i)
			continue
		}
		t.Nodes[i].Parent = parentIdx
		t.Nodes[parentIdx].Children = append(t.Nodes[parentIdx].Children, i)
	}

	sortSiblings := func(indices []int) {
		sort.SliceStable(indices, func(a, b int) bool {
			ca, cb := t.Nodes[indices[a]].Category, t.Nodes[indices[b]].Category
			if ca.SortOrder != cb.SortOrder {
				return ca.SortOrder < cb.SortOrder
			}
			return ca.Name < cb.Name
		})
	}
	sortSiblings(t.roots)
	for i := range t.Nodes {
		sortSiblings(t.Nodes[i].Children)
	}

	return t, nil
}

// Roots returns the indices of the top-level categories in display order.
func (t *Tree) Roots() []int {
	return t.roots
}

// Lookup returns the node index for a category ID.
func (t *Tree) Lookup(id uuid.UUID) (int, bool) {
	idx, ok := t.byID[id]
	return idx, ok
}

// Walk visits every node depth-first in display order. Traversal is
// iterative over the arena; a cyclic parent chain cannot loop because each
// node is pushed at most once from its parent's child list.
func (t *Tree) Walk(visit func(idx, depth int)) {
	type frame struct {
		idx   int
		depth int
	}
	stack := make([]frame, 0, len(t.Nodes))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{t.roots[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f.idx, f.depth)
		children := t.Nodes[f.idx].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

// Snapshot is everything a waiter device needs to take orders offline.
type Snapshot struct {
	Tree      *Tree
	Items     []database.MenuItem
	Modifiers []database.Modifier
	Decisions []database.Decision

	// ItemsByCategory groups active items by their category, in name order.
	ItemsByCategory map[uuid.UUID][]database.MenuItem
}

// BuildSnapshot loads the full menu for a business. Inactive items are
// excluded; empty categories are kept so the device can still show them.
func BuildSnapshot(ctx context.Context, store Store, businessID uuid.UUID) (*Snapshot, error) {
	categories, err := store.ListMenuCategories(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	tree, err := BuildTree(categories)
	if err != nil {
		return nil, fmt.Errorf("build category tree: %w", err)
	}

	items, err := store.ListMenuItems(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	modifiers, err := store.ListModifiers(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list modifiers: %w", err)
	}
	decisions, err := store.ListDecisions(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	snap := &Snapshot{
		Tree:            tree,
		Modifiers:       modifiers,
		Decisions:       decisions,
		ItemsByCategory: make(map[uuid.UUID][]database.MenuItem),
	}
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		snap.Items = append(snap.Items, item)
		snap.ItemsByCategory[item.CategoryID] = append(snap.ItemsByCategory[item.CategoryID], item)
	}
	for _, group := range snap.ItemsByCategory {
		sort.SliceStable(group, func(a, b int) bool { return group[a].Name < group[b].Name })
	}

	return snap, nil
}
