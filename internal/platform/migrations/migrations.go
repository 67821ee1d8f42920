// Package migrations adds the PostgreSQL constraints that GORM AutoMigrate cannot express.
// Tables themselves are created by the persistence adapters when they are constructed.
package migrations

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	apptdomain "github.com/petopia/petopia-server/internal/domains/appointments/domain"
	petsdomain "github.com/petopia/petopia-server/internal/domains/pets/domain"
	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
)

// Check is a named CHECK constraint on one table.
type Check struct {
	Table string
	Name  string
	Expr  string
}

// Checks returns the constraints guarding price, quantity and status columns.
// Product stock is already checked by the products table definition.
func Checks() []Check {
	orderStatuses := make([]string, 0, len(storedomain.Statuses()))
	for _, s := range storedomain.Statuses() {
		orderStatuses = append(orderStatuses, string(s))
	}
	return []Check{
		{Table: "products", Name: "chk_products_price_non_negative", Expr: "price >= 0"},
		{Table: "order_items", Name: "chk_order_items_quantity_positive", Expr: "quantity > 0"},
		{Table: "orders", Name: "chk_orders_status", Expr: inList("status", orderStatuses)},
		{Table: "appointments", Name: "chk_appointments_status", Expr: inList("status", []string{
			string(apptdomain.StatusBooked), string(apptdomain.StatusConfirmed),
			string(apptdomain.StatusCompleted), string(apptdomain.StatusCancelled),
		})},
		{Table: "adoptions", Name: "chk_adoptions_status", Expr: inList("status", []string{
			string(petsdomain.AdoptionPending), string(petsdomain.AdoptionApproved), string(petsdomain.AdoptionRejected),
		})},
	}
}

// Run applies every check idempotently. Non-PostgreSQL dialects are skipped.
func Run(db *gorm.DB) error {
	if db == nil || db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, check := range Checks() {
		if err := db.Exec(check.Statement()).Error; err != nil {
			return fmt.Errorf("apply %s: %w", check.Name, err)
		}
	}
	return nil
}

// Statement renders a DO block that adds the constraint only when the table exists and the constraint is missing.
func (c Check) Statement() string {
	return fmt.Sprintf(
		"DO $$ BEGIN IF to_regclass(%s) IS NOT NULL AND NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = %s) THEN ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s); END IF; END $$;",
		pq.QuoteLiteral(c.Table), pq.QuoteLiteral(c.Name), pq.QuoteIdentifier(c.Table), pq.QuoteIdentifier(c.Name), c.Expr,
	)
}

func inList(column string, values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, pq.QuoteLiteral(v))
	}
	return fmt.Sprintf("%s IN (%s)", pq.QuoteIdentifier(column), strings.Join(quoted, ", "))
}
