// Package memory provides an in-memory mutation-rule source, plus a JSON
// file loader for flat rule files.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hivecore/pkg/domain"
)

// Source serves a fixed rule set from memory.
type Source struct {
	rules []domain.MutationRule
}

// NewSource copies the supplied rules into a new source.
func NewSource(rules []domain.MutationRule) *Source {
	out := make([]domain.MutationRule, len(rules))
	copy(out, rules)
	return &Source{rules: out}
}

// FromJSONFile loads a rule list from a JSON file of the shape
// [{"result": ..., "parent_a": ..., "parent_b": ...}, ...].
func FromJSONFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var rules []domain.MutationRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode rules file %s: %w", path, err)
	}
	return NewSource(rules), nil
}

// Rules implements domain.RuleSource.
func (s *Source) Rules(_ context.Context) ([]domain.MutationRule, error) {
	out := make([]domain.MutationRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

// Driver implements domain.RuleSource.
func (s *Source) Driver() string { return "memory" }
