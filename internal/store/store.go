package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DriverName is the pure Go SQLite driver registered by modernc.org/sqlite
const DriverName = "sqlite"

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when input fails validation
	ErrInvalid = errors.New("invalid input")
)

// Problem statuses a user can move a problem through
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists valid problem statuses in cycling order
var Statuses = []string{StatusNotStarted, StatusInProgress, StatusCompleted}

// Pattern is a stored category with its problems
type Pattern struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	Problems  []Problem `json:"problems"`
}

// Problem is a stored study-guide problem
type Problem struct {
	ID          int64   `json:"id"`
	PatternID   int64   `json:"patternId"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Difficulty  string  `json:"difficulty"`
	Status      string  `json:"status"`
	YouTubeURL  string  `json:"youtube"`
	LeetCodeURL string  `json:"leetcode"`
	ArticleURL  *string `json:"article"`
	Position    int     `json:"position"`
}

// Blog is a blog post
type Blog struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Activity is one user's active time for one day
type Activity struct {
	UserID        string `json:"userId"`
	Day           string `json:"date"`
	SecondsActive int64  `json:"secondsActive"`
}

// SQLiteStore persists the guide, blogs and activity in SQLite
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single writer; also keeps :memory: databases on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Open opens (creating if needed) the database at dbPath and migrates it
func Open(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on any error
func (s *SQLiteStore) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

