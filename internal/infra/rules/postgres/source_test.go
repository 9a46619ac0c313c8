package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"hivecore/pkg/domain"
)

// stubStore backs a fake pgx connection so the source can be exercised
// without a live server.
type stubStore struct {
	mu     sync.Mutex
	rules  map[string][2]string
	execs  []string
	pingOK bool
}

type stubConnector struct{ store *stubStore }

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{c.store}, nil }
func (c stubConnector) Driver() driver.Driver                        { return nil }

type stubConn struct{ store *stubStore }

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("prepare unsupported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

func (c stubConn) Ping(context.Context) error {
	if !c.store.pingOK {
		return fmt.Errorf("ping refused")
	}
	return nil
}

func (c stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.execs = append(c.store.execs, query)
	if strings.Contains(query, "INSERT INTO mutation_rules") {
		if len(args) != 3 {
			return nil, fmt.Errorf("expected 3 args, got %d", len(args))
		}
		c.store.rules[args[0].Value.(string)] = [2]string{args[1].Value.(string), args[2].Value.(string)}
	}
	return driver.RowsAffected(1), nil
}

func (c stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.Contains(query, "FROM mutation_rules") {
		return nil, fmt.Errorf("unexpected query %q", query)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	results := make([]string, 0, len(c.store.rules))
	for result := range c.store.rules {
		results = append(results, result)
	}
	sort.Strings(results)
	rows := &stubRows{}
	for _, result := range results {
		parents := c.store.rules[result]
		rows.data = append(rows.data, [3]string{result, parents[0], parents[1]})
	}
	return rows, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct {
	data [][3]string
	pos  int
}

func (r *stubRows) Columns() []string { return []string{"result", "parent_a", "parent_b"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.pos]
	r.pos++
	dest[0], dest[1], dest[2] = row[0], row[1], row[2]
	return nil
}

func openStubSource(t *testing.T, store *stubStore) *Source {
	t.Helper()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(stubConnector{store}), nil
	})
	t.Cleanup(restore)

	src, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestOpenEnsuresRuleTable(t *testing.T) {
	store := &stubStore{rules: map[string][2]string{}, pingOK: true}
	src := openStubSource(t, store)
	if src.Driver() != "postgres" {
		t.Fatalf("unexpected driver %q", src.Driver())
	}

	sawDDL := false
	for _, stmt := range store.execs {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS mutation_rules") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected rule table DDL, got execs: %v", store.execs)
	}
}

func TestOpenFailsWhenPingFails(t *testing.T) {
	store := &stubStore{rules: map[string][2]string{}}
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(stubConnector{store}), nil
	})
	defer restore()

	if _, err := Open(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestSeedAndRulesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{rules: map[string][2]string{}, pingOK: true}
	src := openStubSource(t, store)

	seed := []domain.MutationRule{
		{Result: "Noble", ParentA: "Cultivated", ParentB: "Common"},
		{Result: "Common", ParentA: "Forest", ParentB: "Meadows"},
	}
	if err := src.Seed(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := src.Rules(ctx)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(got))
	}
	// ORDER BY result
	if got[0].Result != "Common" || got[1].Result != "Noble" {
		t.Fatalf("unexpected order: %v", got)
	}
	if got[1].ParentA != "Cultivated" || got[1].ParentB != "Common" {
		t.Fatalf("unexpected parents: %+v", got[1])
	}
}
