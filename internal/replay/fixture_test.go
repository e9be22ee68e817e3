package replay

// #region imports
import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// #endregion imports

// #region loader-tests

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadFixtureRejectsUnknownKind(t *testing.T) {
	path := writeFixture(t, `{
		"start_at": "2026-03-02T14:00:00Z",
		"steps": [{"at_ms": 0, "kind": "video"}]
	}`)
	_, err := LoadFixture(path)
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("error = %v, want unknown kind", err)
	}
}

func TestLoadFixtureRejectsIncompleteSteps(t *testing.T) {
	cases := map[string]string{
		"text without text":     `{"start_at": "2026-03-02T14:00:00Z", "steps": [{"at_ms": 0, "kind": "text"}]}`,
		"audio without payload": `{"start_at": "2026-03-02T14:00:00Z", "steps": [{"at_ms": 0, "kind": "audio"}]}`,
		"context without app":   `{"start_at": "2026-03-02T14:00:00Z", "steps": [{"at_ms": 0, "kind": "context"}]}`,
		"missing start_at":      `{"steps": []}`,
		"negative offset":       `{"start_at": "2026-03-02T14:00:00Z", "steps": [{"at_ms": -5, "kind": "reassess"}]}`,
	}
	for name, body := range cases {
		if _, err := LoadFixture(writeFixture(t, body)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

// #endregion loader-tests
