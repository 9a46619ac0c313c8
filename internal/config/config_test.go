package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hivecore.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Driver != "json" {
		t.Fatalf("unexpected rules driver %q", cfg.Rules.Driver)
	}
	if cfg.Executor.AccumulateBuffer != 1 || cfg.Executor.AccumulateYield != 1 {
		t.Fatalf("unexpected executor defaults: %+v", cfg.Executor)
	}
	if cfg.Executor.PollInterval != 50*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", cfg.Executor.PollInterval)
	}
	if cfg.Archive.Driver != "memory" {
		t.Fatalf("unexpected archive driver %q", cfg.Archive.Driver)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[rules]
driver = "sqlite"
location = "rules.db"

[executor]
accumulate_buffer = 3
accumulate_yield = 2
poll_interval = "10ms"

[archive]
driver = "fs"
fs_root = "/tmp/archive"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Driver != "sqlite" || cfg.Rules.Location != "rules.db" {
		t.Fatalf("rules not loaded: %+v", cfg.Rules)
	}
	if cfg.Executor.AccumulateBuffer != 3 || cfg.Executor.AccumulateYield != 2 {
		t.Fatalf("executor not loaded: %+v", cfg.Executor)
	}
	if cfg.Executor.PollInterval != 10*time.Millisecond {
		t.Fatalf("poll interval not parsed: %v", cfg.Executor.PollInterval)
	}
	if cfg.Archive.Driver != "fs" || cfg.Archive.FSRoot != "/tmp/archive" {
		t.Fatalf("archive not loaded: %+v", cfg.Archive)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level not loaded: %q", cfg.Log.Level)
	}
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, `
[executor]
accumulate_buffer = 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Executor.AccumulateBuffer != 0 {
		t.Fatalf("explicit zero buffer lost: %d", cfg.Executor.AccumulateBuffer)
	}
	if cfg.Executor.AccumulateYield != 1 {
		t.Fatalf("yield default lost: %d", cfg.Executor.AccumulateYield)
	}
	if cfg.Rules.Driver != "json" {
		t.Fatalf("rules default lost: %q", cfg.Rules.Driver)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown rules driver":   "[rules]\ndriver = \"csv\"\n",
		"unknown archive driver": "[archive]\ndriver = \"ftp\"\n",
		"negative buffer":        "[executor]\naccumulate_buffer = -1\n",
		"zero yield":             "[executor]\naccumulate_yield = 0\n",
		"bad poll interval":      "[executor]\npoll_interval = \"soon\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
