package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/navidash/internal/repository"
)

var _ repository.SlotStore = (*DB)(nil)

// Load returns the bytes saved under name, or (nil, nil) if the slot is empty.
func (db *DB) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT data FROM slots WHERE name = ?`,
		name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: loading slot %s: %w", name, err)
	}
	return data, nil
}

// Save replaces the slot's content.
//
// UPSERT:
// INSERT ... ON CONFLICT(name) DO UPDATE writes a new row the first time and
// overwrites it afterwards, in one statement.
func (db *DB) Save(ctx context.Context, name string, data []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name,
		data,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving slot %s: %w", name, err)
	}
	return nil
}

// Names lists the slots that hold data, in name order.
func (db *DB) Names(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM slots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing slots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning slot row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating slots: %w", err)
	}
	return names, nil
}
