package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sajipos/api/internal/database"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// formatTicketID builds the customer-facing ticket identifier. The format is
// part of the client contract: date then per-day sequence, zero padded.
func formatTicketID(date time.Time, seq int32) string {
	return fmt.Sprintf("%s-%03d", date.Format("20060102"), seq)
}

// ticketTitle regenerates the display title from the ticket id and the names
// of every table the order currently spans. Names are sorted so the title is
// stable regardless of merge order.
func ticketTitle(ticketID string, tableNames []string) string {
	names := make([]string, len(tableNames))
	copy(names, tableNames)
	sort.Strings(names)
	return ticketID + "-" + strings.Join(names, "+")
}

// decimalFromInput parses a client-supplied amount string. Empty input
// parses to zero.
func decimalFromInput(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// tableNames extracts names for the given set from a ListTablesByIDs result.
func tableNames(tables []database.DiningTable) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names
}
