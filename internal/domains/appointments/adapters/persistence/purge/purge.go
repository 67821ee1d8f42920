// Package purge removes booked slots that have fallen out of the retention window.
package purge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const dateLayout = "2006-01-02"

const deleteExpiredSlots = `DELETE FROM booked_slots WHERE slot_date < $1`

// Open connects to PostgreSQL through lib/pq.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(2)
	return db, nil
}

// Purger deletes booked slots older than a retention window.
type Purger struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPurger builds a purger on db.
func NewPurger(db *sqlx.DB) *Purger {
	return &Purger{db: db, now: time.Now}
}

// Cutoff is the first calendar day still retained.
func Cutoff(now time.Time, retentionDays int) string {
	return now.UTC().AddDate(0, 0, -retentionDays).Format(dateLayout)
}

// Purge removes every slot dated before the cutoff and reports how many rows went away.
func (p *Purger) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %d days", retentionDays)
	}
	res, err := p.db.ExecContext(ctx, deleteExpiredSlots, Cutoff(p.now(), retentionDays))
	if err != nil {
		return 0, fmt.Errorf("delete expired slots: %w", err)
	}
	return res.RowsAffected()
}
