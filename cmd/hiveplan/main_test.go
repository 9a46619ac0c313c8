package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func chainRules(t *testing.T) string {
	t.Helper()
	return writeFile(t, "rules.json", `[
  {"result": "Common", "parent_a": "Forest", "parent_b": "Meadows"},
  {"result": "Cultivated", "parent_a": "Common", "parent_b": "Meadows"},
  {"result": "Noble", "parent_a": "Cultivated", "parent_b": "Common"}
]`)
}

func TestCLIRequiresTarget(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-rules", "rules.json"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "-target is required") {
		t.Fatalf("missing usage hint:\n%s", stderr.String())
	}
}

func TestCLIPlansTarget(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)
	stock := writeFile(t, "stock.json", `{
  "primary": {"Forest": 2, "Meadows": 1},
  "secondary": {"Meadows": 3, "Common": 1}
}`)

	var stdout, stderr bytes.Buffer
	code := cli([]string{"-rules", rules, "-target", "Noble", "-stock", stock}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "plan: Noble") {
		t.Fatalf("missing plan header:\n%s", out)
	}
	if !strings.Contains(out, "tree:") {
		t.Fatalf("missing tree section:\n%s", out)
	}
}

func TestCLIPrintsJSONPlan(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)

	var stdout, stderr bytes.Buffer
	code := cli([]string{"-rules", rules, "-target", "Common", "-json"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"target": "Common"`) {
		t.Fatalf("missing JSON plan:\n%s", stdout.String())
	}
}

func TestCLIExecutesPlan(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)
	stock := writeFile(t, "stock.json", `{
  "primary": {"Forest": 1},
  "secondary": {"Meadows": 2, "Common": 1}
}`)

	var stdout, stderr bytes.Buffer
	code := cli([]string{"-rules", rules, "-target", "Cultivated", "-stock", stock, "-execute"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "breed: Common + Meadows -> Cultivated") {
		t.Fatalf("missing breed step:\n%s", out)
	}
	if !strings.Contains(out, "steps completed") {
		t.Fatalf("missing run summary:\n%s", out)
	}
}

func TestCLIArchivesPlanToFilesystem(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)
	root := t.TempDir()
	cfg := writeFile(t, "hivecore.toml", "[archive]\ndriver = \"fs\"\nfs_root = \""+strings.ReplaceAll(root, `\`, `\\`)+"\"\n")

	var stdout, stderr bytes.Buffer
	code := cli([]string{"-config", cfg, "-rules", rules, "-target", "Common", "-archive"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "archived: plans/Common/") {
		t.Fatalf("missing archive confirmation:\n%s", stdout.String())
	}

	matches, err := filepath.Glob(filepath.Join(root, "plans", "Common", "*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one archived document, got %v (err %v)", matches, err)
	}
}

func TestCLIRepeatedInvocationsShareMetricsRecorder(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)

	// The expvar name is published once per process; a second invocation
	// must reuse it rather than republish.
	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		code := cli([]string{"-rules", rules, "-target", "Common"}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("invocation %d: exit %d, stderr:\n%s", i, code, stderr.String())
		}
	}
	snap := planMetrics.Snapshot()
	if snap.Results["assemble_plan"]["success"] < 2 {
		t.Fatalf("expected both runs recorded, got %+v", snap.Results)
	}
}

func TestCLITreatsUnknownTargetAsBaseItem(t *testing.T) {
	t.Setenv("HIVECORE_LOG_FORMAT", "json")
	rules := chainRules(t)

	var stdout, stderr bytes.Buffer
	code := cli([]string{"-rules", rules, "-target", "Imperial"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr.String())
	}
	// No rule produces Imperial, so the plan is a single base leaf with
	// nothing to breed.
	out := stdout.String()
	if !strings.Contains(out, "steps: 0") {
		t.Fatalf("expected zero steps:\n%s", out)
	}
	if !strings.Contains(out, "Imperial (base)") {
		t.Fatalf("expected base leaf:\n%s", out)
	}
}
