// Package postgres provides a mutation-rule source backed by Postgres for
// deployments sharing one rule set across hosts.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"hivecore/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/hivecore?sslmode=disable"
)

var sqlOpen = sql.Open

// OverrideSQLOpen swaps the connection opener and returns a restore
// function. Test hook only.
func OverrideSQLOpen(fn func(driver, dsn string) (*sql.DB, error)) func() {
	prev := sqlOpen
	sqlOpen = fn
	return func() { sqlOpen = prev }
}

// Source reads mutation rules from a Postgres database.
type Source struct {
	db *sql.DB
}

// Open connects using the provided DSN (falls back to defaultDSN) and
// ensures the rule table exists.
func Open(ctx context.Context, dsn string) (*Source, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sqlOpen(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS mutation_rules (
		result TEXT PRIMARY KEY,
		parent_a TEXT NOT NULL,
		parent_b TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure mutation_rules table: %w", err)
	}
	return &Source{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Source) DB() *sql.DB { return s.db }

// Seed upserts the supplied rules.
func (s *Source) Seed(ctx context.Context, rules []domain.MutationRule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mutation_rules(result, parent_a, parent_b) VALUES($1,$2,$3)
			 ON CONFLICT(result) DO UPDATE SET parent_a=excluded.parent_a, parent_b=excluded.parent_b`,
			string(rule.Result), string(rule.ParentA), string(rule.ParentB)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert rule %s: %w", rule.Result, err)
		}
	}
	return tx.Commit()
}

// Rules implements domain.RuleSource.
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
func (s *Source) Driver() string { return "postgres" }
