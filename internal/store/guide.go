package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gubarz/studymd/internal/parser"
)

// ImportReport summarizes an import run
type ImportReport struct {
	PatternsCreated int `json:"patternsCreated"`
	PatternsReused  int `json:"patternsReused"`
	ProblemsCreated int `json:"problemsCreated"`
	ProblemsUpdated int `json:"problemsUpdated"`
}

// DuplicateGroup is a set of patterns sharing one exact name
type DuplicateGroup struct {
	Name       string  `json:"name"`
	KeeperID   int64   `json:"keeperId"`
	Duplicates []int64 `json:"duplicates"`
}

// MergeReport summarizes a deduplication run
type MergeReport struct {
	Groups          []DuplicateGroup `json:"groups"`
	PatternsDeleted int64            `json:"patternsDeleted"`
	ProblemsMoved   int64            `json:"problemsMoved"`
	ProblemsRemoved int64            `json:"problemsRemoved"`
}

// ImportCategories loads parsed categories in one transaction. Patterns are
// matched by exact name (lowest id wins); problems are upserted by
// (pattern, title) and keep whatever status they already had.
func (s *SQLiteStore) ImportCategories(ctx context.Context, categories []parser.Category) (ImportReport, error) {
	var report ImportReport

	err := s.withTx(ctx, func(q querier) error {
		for pos, category := range categories {
			patternID, created, err := s.ensurePattern(ctx, q, category.Name, pos)
			if err != nil {
				return err
			}
			if created {
				report.PatternsCreated++
			} else {
				report.PatternsReused++
			}

			for ppos, problem := range category.Problems {
				inserted, err := upsertProblem(ctx, q, patternID, problem, ppos)
				if err != nil {
					return fmt.Errorf("problem %q: %w", problem.Title, err)
				}
				if inserted {
					report.ProblemsCreated++
				} else {
					report.ProblemsUpdated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}
	return report, nil
}

func (s *SQLiteStore) ensurePattern(ctx context.Context, q querier, name string, pos int) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM patterns WHERE name = ? ORDER BY id LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to look up pattern %q: %w", name, err)
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO patterns (name, position, created_at) VALUES (?, ?, ?)`,
		name, pos, s.now().UTC())
	if err != nil {
		return 0, false, fmt.Errorf("failed to create pattern %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func upsertProblem(ctx context.Context, q querier, patternID int64, p parser.Problem, pos int) (bool, error) {
	var existing int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM problems WHERE pattern_id = ? AND title = ?`, patternID, p.Title).Scan(&existing)
	switch {
	case err == nil:
		_, err = q.ExecContext(ctx, `
			UPDATE problems
			SET slug = ?, difficulty = ?, youtube_url = ?, leetcode_url = ?,
			    article_url = COALESCE(article_url, ?), position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			p.ID, string(p.Difficulty), p.Links.YouTube, p.Links.LeetCode, p.Links.Article, pos, existing)
		return false, err
	case errors.Is(err, sql.ErrNoRows):
		status := p.Status
		if status == "" {
			status = StatusNotStarted
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO problems (pattern_id, slug, title, difficulty, status, youtube_url, leetcode_url, article_url, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			patternID, p.ID, p.Title, string(p.Difficulty), status, p.Links.YouTube, p.Links.LeetCode, p.Links.Article, pos)
		return true, err
	default:
		return false, err
	}
}

// ListPatterns returns every pattern with its problems in display order
func (s *SQLiteStore) ListPatterns(ctx context.Context) ([]Pattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, position, created_at FROM patterns ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []Pattern
	index := make(map[int64]int)
	for rows.Next() {
		var p Pattern
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Problems = []Problem{}
		index[p.ID] = len(patterns)
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	problems, err := s.db.QueryContext(ctx, `
		SELECT id, pattern_id, slug, title, difficulty, status,
		       COALESCE(youtube_url, ''), COALESCE(leetcode_url, ''), article_url, position
		FROM problems ORDER BY pattern_id, position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	defer problems.Close()

	for problems.Next() {
		var p Problem
		var article sql.NullString
		if err := problems.Scan(&p.ID, &p.PatternID, &p.Slug, &p.Title, &p.Difficulty, &p.Status,
			&p.YouTubeURL, &p.LeetCodeURL, &article, &p.Position); err != nil {
			return nil, err
		}
		if article.Valid {
			p.ArticleURL = &article.String
		}
		if i, ok := index[p.PatternID]; ok {
			patterns[i].Problems = append(patterns[i].Problems, p)
		}
	}
	return patterns, problems.Err()
}

// ValidStatus reports whether status is one of Statuses
func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// NextStatus returns the status following current in cycling order
func NextStatus(current string) string {
	for i, s := range Statuses {
		if s == current {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusNotStarted
}

// UpdateProblemStatus sets a problem's status
func (s *SQLiteStore) UpdateProblemStatus(ctx context.Context, id int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE problems SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update problem %d: %w", id, err)
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

// FindDuplicatePatterns groups patterns by exact name. Names differing only
// in case are treated as distinct.
func (s *SQLiteStore) FindDuplicatePatterns(ctx context.Context) ([]DuplicateGroup, error) {
	return findDuplicates(ctx, s.db)
}

func findDuplicates(ctx context.Context, q querier) ([]DuplicateGroup, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name FROM patterns
		WHERE name IN (SELECT name FROM patterns GROUP BY name HAVING COUNT(*) > 1)
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for duplicates: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		if n := len(groups); n > 0 && groups[n-1].Name == name {
			groups[n-1].Duplicates = append(groups[n-1].Duplicates, id)
			continue
		}
		groups = append(groups, DuplicateGroup{Name: name, KeeperID: id})
	}
	return groups, rows.Err()
}

// MergeDuplicatePatterns repoints problems from duplicate patterns to the
// keeper and deletes the duplicates, all in a single transaction. Problems
// whose title already exists under the keeper go away with their pattern.
func (s *SQLiteStore) MergeDuplicatePatterns(ctx context.Context) (MergeReport, error) {
	var report MergeReport

	err := s.withTx(ctx, func(q querier) error {
		groups, err := findDuplicates(ctx, q)
		if err != nil {
			return err
		}
		report.Groups = groups

		for _, group := range groups {
			for _, dup := range group.Duplicates {
				res, err := q.ExecContext(ctx,
					`UPDATE OR IGNORE problems SET pattern_id = ?, updated_at = CURRENT_TIMESTAMP WHERE pattern_id = ?`,
					group.KeeperID, dup)
				if err != nil {
					return fmt.Errorf("failed to repoint problems of pattern %d: %w", dup, err)
				}
				moved, err := res.RowsAffected()
				if err != nil {
					return err
				}
				report.ProblemsMoved += moved

				res, err = q.ExecContext(ctx, `DELETE FROM problems WHERE pattern_id = ?`, dup)
				if err != nil {
					return fmt.Errorf("failed to drop colliding problems of pattern %d: %w", dup, err)
				}
				removed, err := res.RowsAffected()
				if err != nil {
					return err
				}
				report.ProblemsRemoved += removed

				if _, err := q.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, dup); err != nil {
					return fmt.Errorf("failed to delete pattern %d: %w", dup, err)
				}
				report.PatternsDeleted++
			}
		}
		return nil
	})
	if err != nil {
		return MergeReport{}, err
	}
	return report, nil
}
