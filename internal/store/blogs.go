package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

func validateBlog(b *Blog) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	return nil
}

// CreateBlog inserts a post and fills in its id and timestamps
func (s *SQLiteStore) CreateBlog(ctx context.Context, b *Blog) error {
	if err := validateBlog(b); err != nil {
		return err
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blogs (title, content, author, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.Title, b.Content, b.Author, now, now)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// GetBlog returns one post
func (s *SQLiteStore) GetBlog(ctx context.Context, id int64) (*Blog, error) {
	var b Blog
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, author, created_at, updated_at FROM blogs WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog %d: %w", id, err)
	}
	return &b, nil
}

// ListBlogs returns posts newest first
func (s *SQLiteStore) ListBlogs(ctx context.Context) ([]Blog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, author, created_at, updated_at FROM blogs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var b Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// UpdateBlog replaces title, content and author of an existing post
func (s *SQLiteStore) UpdateBlog(ctx context.Context, b *Blog) error {
	if err := validateBlog(b); err != nil {
		return err
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE blogs SET title = ?, content = ?, author = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Content, b.Author, now, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update blog %d: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	updated, err := s.GetBlog(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *updated
	return nil
}

// DeleteBlog removes a post
func (s *SQLiteStore) DeleteBlog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
