package pkgconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, "int: 42\nfloat: 3.14\nstring: hi\nduration: 15s\narray: a,b,c\n")

	cfg, err := NewViper(path, nil)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetInt("int"); got != 42 {
		t.Fatalf("GetInt: expected 42, got %d", got)
	}
	if got := cfg.GetFloat("float"); got != 3.14 {
		t.Fatalf("GetFloat: expected 3.14, got %v", got)
	}
	if got := cfg.GetString("string"); got != "hi" {
		t.Fatalf("GetString: expected hi, got %q", got)
	}
	if got := cfg.GetDuration("duration"); got != 15*time.Second {
		t.Fatalf("GetDuration: expected 15s, got %v", got)
	}
	if got := cfg.GetArray("array"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
}

func TestViperDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"), map[string]any{
		"server.url": "http://fhir-server:8080/fhir",
		"poll":       "10s",
	})
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("server.url"); got != "http://fhir-server:8080/fhir" {
		t.Fatalf("expected default server url, got %q", got)
	}
	if got := cfg.GetDuration("poll"); got != 10*time.Second {
		t.Fatalf("expected default poll duration, got %v", got)
	}
}

func TestViperEnvOverridesDefault(t *testing.T) {
	t.Setenv("BULKIMPORT_SERVER_URL", "http://override:9999/fhir")

	cfg, err := NewViper("", map[string]any{
		"server.url": "http://fhir-server:8080/fhir",
	})
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("server.url"); got != "http://override:9999/fhir" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestViperFileOverridesDefault(t *testing.T) {
	path := writeConfigFile(t, "server:\n  url: http://from-file:8080/fhir\n")

	cfg, err := NewViper(path, map[string]any{
		"server.url": "http://fhir-server:8080/fhir",
	})
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("server.url"); got != "http://from-file:8080/fhir" {
		t.Fatalf("expected file value, got %q", got)
	}
}
