package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"found-music-bot/models"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			input TEXT NOT NULL,
			outcome TEXT NOT NULL,
			title TEXT,
			artist TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_lookups_chat ON lookups(chat_id);
	`)
	return err
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *SQLiteClient) Record(ctx context.Context, l models.Lookup) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO lookups (chat_id, kind, input, outcome, title, artist, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ChatID, l.Kind, l.Input, l.Outcome, l.Title, l.Artist, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lookup: %w", err)
	}
	return nil
}

// Stats counts every lookup of chatID; chatID 0 counts all chats.
func (c *SQLiteClient) Stats(ctx context.Context, chatID int64) (models.LookupStats, error) {
	query := "SELECT outcome, COUNT(*) FROM lookups"
	var args []any
	if chatID != 0 {
		query += " WHERE chat_id = ?"
		args = append(args, chatID)
	}
	query += " GROUP BY outcome"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.LookupStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats models.LookupStats
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return models.LookupStats{}, fmt.Errorf("failed to scan stats row: %w", err)
		}
		addOutcome(&stats, outcome, n)
	}
	return stats, rows.Err()
}
