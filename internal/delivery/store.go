// Package delivery persists authenticated webhook payloads. It is the
// downstream side of the verifier: once a notification clears signature
// verification it lands here and nowhere else.
package delivery

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Dispatch records an accepted payload and returns its delivery id.
func (s *Store) Dispatch(ctx context.Context, req Request) (string, error) {
	if req.Receiver == "" {
		return "", fmt.Errorf("receiver is empty")
	}
	if len(req.Payload) == 0 {
		return "", fmt.Errorf("payload is empty")
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var hints any
	if len(req.Hints) > 0 {
		hints = strings.Join(req.Hints, ",")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO deliveries(id, receiver, subscription_id, hints, payload, received_at)
VALUES(?, ?, ?, ?, ?, ?);
`, id, req.Receiver, req.SubscriptionID, hints, string(req.Payload), now)
	if err != nil {
		return "", fmt.Errorf("store delivery: %w", err)
	}
	return id, nil
}

// GetByID fetches a single delivery.
func (s *Store) GetByID(ctx context.Context, id string) (*Delivery, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, receiver, subscription_id, hints, payload, received_at
FROM deliveries
WHERE id = ?;
`, id)

	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// Recent returns the newest deliveries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, receiver, subscription_id, hints, payload, received_at
FROM deliveries
ORDER BY received_at DESC, rowid DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var out []*Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return out, nil
}

// Count returns the total number of stored deliveries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deliveries;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deliveries: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*Delivery, error) {
	var (
		d          Delivery
		hints      sql.NullString
		payload    string
		receivedAt string
	)
	if err := row.Scan(&d.ID, &d.Receiver, &d.SubscriptionID, &hints, &payload, &receivedAt); err != nil {
		return nil, err
	}

	if hints.Valid && hints.String != "" {
		d.Hints = strings.Split(hints.String, ",")
	}
	d.Payload = json.RawMessage(payload)
	if t, err := time.Parse(time.RFC3339Nano, receivedAt); err == nil {
		d.ReceivedAt = t
	}
	return &d, nil
}
