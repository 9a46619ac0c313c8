// Package sqlite provides a mutation-rule source backed by a single
// SQLite table, suitable for shipping a rule set as one file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"hivecore/pkg/domain"
)

// Source reads mutation rules from a SQLite database.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the rule database at path and
// ensures the rule table exists.
func Open(path string) (*Source, error) {
	if path == "" {
		path = "hivecore.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS mutation_rules (
		result TEXT PRIMARY KEY,
		parent_a TEXT NOT NULL,
		parent_b TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create mutation_rules table: %w", err)
	}
	return &Source{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Source) Close() error { return s.db.Close() }

// Seed upserts the supplied rules, replacing parents for existing results.
func (s *Source) Seed(ctx context.Context, rules []domain.MutationRule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mutation_rules(result, parent_a, parent_b) VALUES(?,?,?)
			 ON CONFLICT(result) DO UPDATE SET parent_a=excluded.parent_a, parent_b=excluded.parent_b`,
			string(rule.Result), string(rule.ParentA), string(rule.ParentB)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert rule %s: %w", rule.Result, err)
		}
	}
	return tx.Commit()
}

// Rules implements domain.RuleSource. Rows are ordered by result so the
// loaded set is stable across invocations.
func (s *Source) Rules(ctx context.Context) ([]domain.MutationRule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result, parent_a, parent_b FROM mutation_rules ORDER BY result`)
	if err != nil {
		return nil, fmt.Errorf("select mutation_rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []domain.MutationRule
	for rows.Next() {
		var result, parentA, parentB string
		if err := rows.Scan(&result, &parentA, &parentB); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, domain.MutationRule{
			Result:  domain.Item(result),
			ParentA: domain.Item(parentA),
			ParentB: domain.Item(parentB),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return rules, nil
}

// Driver implements domain.RuleSource.
func (s *Source) Driver() string { return "sqlite" }
