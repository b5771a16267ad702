package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, cfgPath, err := Resolve(Flags{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfgPath != "" {
		t.Fatalf("no override expected, got %q", cfgPath)
	}
	if cfg.CreateMode != "0644" {
		t.Fatalf("createMode %q", cfg.CreateMode)
	}
	if cfg.CreateFileMode() != 0o644 {
		t.Fatalf("create file mode %o", cfg.CreateFileMode())
	}
	if cfg.MaxRequest != 10*1024*1024 {
		t.Fatalf("maxRequest %d", cfg.MaxRequest)
	}
	if cfg.Watch.DebounceMs != 300 {
		t.Fatalf("debounce %d", cfg.Watch.DebounceMs)
	}
}

func TestOverrideMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsaudit.yaml")
	override := `
createMode: "0600"
runLogPath: /var/log/fsaudit/runs.log
watch:
  debounceMs: 50
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, cfgPath, err := Resolve(Flags{ConfigPath: path})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfgPath != path {
		t.Fatalf("cfgPath %q", cfgPath)
	}
	if cfg.CreateMode != "0600" || cfg.CreateFileMode() != 0o600 {
		t.Fatalf("createMode not overridden: %q", cfg.CreateMode)
	}
	if cfg.RunLogPath != "/var/log/fsaudit/runs.log" {
		t.Fatalf("runLogPath %q", cfg.RunLogPath)
	}
	if cfg.Watch.DebounceMs != 50 {
		t.Fatalf("debounce %d", cfg.Watch.DebounceMs)
	}
	// Unset fields keep their defaults.
	if cfg.MaxRequest != 10*1024*1024 {
		t.Fatalf("maxRequest %d", cfg.MaxRequest)
	}
	if cfg.SchemaVersion != "1.0" {
		t.Fatalf("schemaVersion %q", cfg.SchemaVersion)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad schema", `schemaVersion: "2.0"`, "unsupported schemaVersion"},
		{"bad mode", `createMode: "rw-r--r--"`, "not an octal permission"},
		{"bad limit", `maxRequestBytes: -5`, "must be positive"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := Resolve(Flags{ConfigPath: path})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, _, err := Resolve(Flags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("expected error for missing override")
	}
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("createMode: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Resolve(Flags{ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("got %v", err)
	}
}
