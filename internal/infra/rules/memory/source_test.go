package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hivecore/pkg/domain"
)

func TestSourceReturnsCopies(t *testing.T) {
	src := NewSource([]domain.MutationRule{
		{Result: "Common", ParentA: "Forest", ParentB: "Meadows"},
	})
	rules, err := src.Rules(context.Background())
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	rules[0].Result = "Mutated"
	again, err := src.Rules(context.Background())
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if again[0].Result != "Common" {
		t.Fatalf("source must not share its backing slice")
	}
	if src.Driver() != "memory" {
		t.Fatalf("unexpected driver %q", src.Driver())
	}
}

func TestFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	payload := `[
		{"result": "Common", "parent_a": "Forest", "parent_b": "Meadows"},
		{"result": "Cultivated", "parent_a": "Common", "parent_b": "Modest"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := FromJSONFile(path)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	rules, err := src.Rules(context.Background())
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if len(rules) != 2 || rules[1].ParentA != "Common" {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestFromJSONFileErrors(t *testing.T) {
	if _, err := FromJSONFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := FromJSONFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
