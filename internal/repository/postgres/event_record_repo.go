package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventcatalog/internal/codec"
	"eventcatalog/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS event_records (
		position  INTEGER PRIMARY KEY,
		record    TEXT NOT NULL,
		attendees TEXT NOT NULL
	)
`

// EnsureSchema creates the event_records table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create event_records: %w", err)
	}
	return nil
}

// eventRecordRepository keeps one row per event holding the same encoded
// lines the file backend writes.
type eventRecordRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRecordRepository{
		DB: db,
	}
}

func (r *eventRecordRepository) Load(ctx context.Context) ([]*domain.Event, []domain.SkippedRecord, error) {
	query := `
		SELECT position, record, attendees
		FROM event_records
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	var skipped []domain.SkippedRecord
	for rows.Next() {
		var (
			position          int
			record, attendees string
		)
		if err := rows.Scan(&position, &record, &attendees); err != nil {
			return nil, nil, err
		}
		ev, problems, err := codec.DecodeRecord(record, attendees)
		if err != nil {
			skipped = append(skipped, domain.SkippedRecord{Line: position, Reason: err.Error()})
			continue
		}
		for _, p := range problems {
			skipped = append(skipped, domain.SkippedRecord{Line: position, Reason: p})
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return events, skipped, nil
}

// Save replaces every stored row inside one transaction.
func (r *eventRecordRepository) Save(ctx context.Context, events []*domain.Event) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM event_records`); err != nil {
		return fmt.Errorf("clear event_records: %w", err)
	}

	insert := `
		INSERT INTO event_records (position, record, attendees)
		VALUES ($1, $2, $3)
	`
	for i, e := range events {
		record, attendees := codec.EncodeRecord(e)
		if _, err = tx.ExecContext(ctx, insert, i+1, record, attendees); err != nil {
			return fmt.Errorf("insert event %q: %w", e.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
