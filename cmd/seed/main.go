// Command seed loads a demo business into the database: one restaurant with
// two floors of tables, a small menu routed to kitchen and bar printers, and
// an owner plus a PIN waiter to log in with.
package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sajipos/api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var businessID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO businesses (name, tax_rate_percent, fee_percent, gratuity_type, gratuity_value)
		 VALUES ('Warung Saji', 10, 0, 'PERCENTAGE', 5)
		 RETURNING id`).Scan(&businessID)
	if err != nil {
		log.Fatalf("seed business: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO employees (business_id, email, hashed_password, full_name, role, pin) VALUES
		 ($1, 'owner@sajipos.com', $2, 'Demo Owner', 'OWNER', NULL),
		 ($1, 'waiter@sajipos.com', $2, 'Demo Waiter', 'WAITER', '1234')`,
		businessID, string(hashed))
	if err != nil {
		log.Fatalf("seed employees: %v", err)
	}

	floors := map[string]uuid.UUID{}
	for i, name := range []string{"Ground Floor", "Terrace"} {
		var id uuid.UUID
		err = tx.QueryRow(ctx,
			`INSERT INTO floors (business_id, name, sort_order) VALUES ($1, $2, $3) RETURNING id`,
			businessID, name, i+1).Scan(&id)
		if err != nil {
			log.Fatalf("seed floor %s: %v", name, err)
		}
		floors[name] = id
	}

	tables := []struct {
		floor    string
		name     string
		capacity int
	}{
		{"Ground Floor", "T1", 2},
		{"Ground Floor", "T2", 4},
		{"Ground Floor", "T3", 4},
		{"Ground Floor", "T4", 6},
		{"Terrace", "P1", 4},
		{"Terrace", "P2", 8},
	}
	for _, t := range tables {
		_, err = tx.Exec(ctx,
			`INSERT INTO dining_tables (business_id, floor_id, name, capacity) VALUES ($1, $2, $3, $4)`,
			businessID, floors[t.floor], t.name, t.capacity)
		if err != nil {
			log.Fatalf("seed table %s: %v", t.name, err)
		}
	}

	var kitchenPrinter, barPrinter uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO printers (business_id, name, is_kitchen) VALUES ($1, 'Kitchen', TRUE) RETURNING id`,
		businessID).Scan(&kitchenPrinter)
	if err != nil {
		log.Fatalf("seed kitchen printer: %v", err)
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO printers (business_id, name, is_kitchen) VALUES ($1, 'Bar', FALSE) RETURNING id`,
		businessID).Scan(&barPrinter)
	if err != nil {
		log.Fatalf("seed bar printer: %v", err)
	}

	var foodCat, drinksCat uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO menu_categories (business_id, name, sort_order) VALUES ($1, 'Food', 1) RETURNING id`,
		businessID).Scan(&foodCat)
	if err != nil {
		log.Fatalf("seed food category: %v", err)
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO menu_categories (business_id, name, sort_order) VALUES ($1, 'Drinks', 2) RETURNING id`,
		businessID).Scan(&drinksCat)
	if err != nil {
		log.Fatalf("seed drinks category: %v", err)
	}

	menuItems := []struct {
		category uuid.UUID
		name     string
		price    string
		printer  uuid.UUID
	}{
		{foodCat, "Nasi Goreng", "45000", kitchenPrinter},
		{foodCat, "Sate Ayam", "38000", kitchenPrinter},
		{foodCat, "Gado-Gado", "32000", kitchenPrinter},
		{drinksCat, "Es Teh", "8000", barPrinter},
		{drinksCat, "Kopi Tubruk", "15000", barPrinter},
	}
	for _, mi := range menuItems {
		_, err = tx.Exec(ctx,
			`INSERT INTO menu_items (business_id, category_id, name, price, printer_id) VALUES ($1, $2, $3, $4, $5)`,
			businessID, mi.category, mi.name, mi.price, mi.printer)
		if err != nil {
			log.Fatalf("seed menu item %s: %v", mi.name, err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO modifiers (business_id, name, price) VALUES
		 ($1, 'Extra Sambal', 3000),
		 ($1, 'Extra Rice', 7000)`,
		businessID)
	if err != nil {
		log.Fatalf("seed modifiers: %v", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO decisions (business_id, name) VALUES
		 ($1, 'Spicy'),
		 ($1, 'Not Spicy')`,
		businessID)
	if err != nil {
		log.Fatalf("seed decisions: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	log.Printf("seeded demo business %s (owner@sajipos.com / password123, waiter PIN 1234)", businessID)
}
