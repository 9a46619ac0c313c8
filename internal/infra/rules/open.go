// Package rules selects a mutation-rule source implementation by driver
// name.
package rules

import (
	"context"
	"fmt"

	"hivecore/internal/infra/rules/memory"
	"hivecore/internal/infra/rules/postgres"
	"hivecore/internal/infra/rules/sqlite"
	"hivecore/pkg/domain"
)

// Supported rule-source drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open constructs the rule source named by driver. location is the JSON
// file path, SQLite database path, or Postgres DSN respectively.
func Open(ctx context.Context, driver, location string) (domain.RuleSource, error) {
	switch driver {
	case DriverJSON, "":
		return memory.FromJSONFile(location)
	case DriverSQLite:
		return sqlite.Open(location)
	case DriverPostgres:
		return postgres.Open(ctx, location)
	default:
		return nil, fmt.Errorf("unknown rule-source driver %q", driver)
	}
}
