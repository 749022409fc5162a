package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/event-manager-services/common/db"
	apperrors "github.com/event-manager-services/common/errors"
	"github.com/event-manager-services/common/logger"
	"github.com/event-manager-services/services/event-lambda/models"
)

const selectEventColumns = `SELECT event_id, user_id, title, event_type, description, scheduled_at, venue, created_at, updated_at
		FROM events`

// EventRepository handles event data access
type EventRepository struct {
	db  *sql.DB
	log *logger.Logger
}

// NewEventRepository creates a new event repository on conn
func NewEventRepository(conn *sql.DB) *EventRepository {
	return &EventRepository{
		db:  conn,
		log: logger.With("component", "event_repository"),
	}
}

func (r *EventRepository) logQuery(query string, start time.Time, rows int64, err error) {
	entry := logger.QueryLog{
		Query:    query,
		Duration: time.Since(start),
		Rows:     rows,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	r.log.LogQuery(entry)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.EventID,
		&e.UserID,
		&e.Title,
		&e.EventType,
		&e.Description,
		&e.ScheduledAt,
		&e.Venue,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event; a taken event_id is an AlreadyExists error
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `INSERT INTO events
		(event_id, user_id, title, event_type, description, scheduled_at, venue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		e.EventID, e.UserID, e.Title, e.EventType, e.Description, e.ScheduledAt, e.Venue,
		e.CreatedAt, e.UpdatedAt,
	)
	var affected int64
	if err == nil {
		affected, _ = res.RowsAffected()
	}
	r.logQuery(query, start, affected, err)
	if db.IsDuplicateEntry(err) {
		return apperrors.AlreadyExists("Event").WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns the event, or nil when it does not exist
func (r *EventRepository) GetByID(ctx context.Context, eventID string) (*models.Event, error) {
	query := selectEventColumns + ` WHERE event_id = ?`

	start := time.Now()
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		r.logQuery(query, start, 0, nil)
		return nil, nil
	}
	r.logQuery(query, start, 1, err)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return e, nil
}

// ListByUser returns the user's events, newest first
func (r *EventRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := selectEventColumns + ` WHERE user_id = ? ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logQuery(query, start, 0, err)
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	result := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			r.logQuery(query, start, int64(len(result)), err)
			return nil, fmt.Errorf("scan event: %w", err)
		}
		result = append(result, *e)
	}
	err = rows.Err()
	r.logQuery(query, start, int64(len(result)), err)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return result, nil
}

// Update applies the provided fields to an event owned by userID and returns the stored row.
// It returns nil when no such event belongs to userID. MySQL reports zero affected rows for
// unchanged values, so ownership is decided by the re-read, not by RowsAffected.
func (r *EventRepository) Update(ctx context.Context, eventID, userID string, req *models.SaveEventRequest, now time.Time) (*models.Event, error) {
	cols, vals := req.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("update event %s: no fields", eventID)
	}

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args := append(vals, now, eventID, userID)

	update := `UPDATE events SET ` + strings.Join(sets, ", ") + ` WHERE event_id = ? AND user_id = ?`
	reread := selectEventColumns + ` WHERE event_id = ? AND user_id = ?`

	var updated *models.Event
	err := db.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		start := time.Now()
		res, err := tx.ExecContext(ctx, update, args...)
		var affected int64
		if err == nil {
			affected, _ = res.RowsAffected()
		}
		r.logQuery(update, start, affected, err)
		if err != nil {
			return err
		}

		start = time.Now()
		e, err := scanEvent(tx.QueryRowContext(ctx, reread, eventID, userID))
		if errors.Is(err, sql.ErrNoRows) {
			r.logQuery(reread, start, 0, nil)
			return nil
		}
		r.logQuery(reread, start, 1, err)
		if err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", eventID, err)
	}
	return updated, nil
}

// Delete removes an event owned by userID; false means nothing matched
func (r *EventRepository) Delete(ctx context.Context, eventID, userID string) (bool, error) {
	query := `DELETE FROM events WHERE event_id = ? AND user_id = ?`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		r.logQuery(query, start, 0, err)
		return false, fmt.Errorf("delete event %s: %w", eventID, err)
	}
	affected, err := res.RowsAffected()
	r.logQuery(query, start, affected, err)
	if err != nil {
		return false, fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return affected > 0, nil
}

// Exists reports whether an event with eventID exists, regardless of owner
func (r *EventRepository) Exists(ctx context.Context, eventID string) (bool, error) {
	query := `SELECT COUNT(1) FROM events WHERE event_id = ?`

	start := time.Now()
	var n int
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&n)
	r.logQuery(query, start, int64(n), err)
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", eventID, err)
	}
	return n > 0, nil
}
