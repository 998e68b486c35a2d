package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrefsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	p, err := LoadPrefs(dir)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if p != (Prefs{}) {
		t.Fatalf("missing file should give zero prefs, got %+v", p)
	}

	want := Prefs{Mini: true, HelpCollapsed: true, StatusFilter: "todo", Query: "alp"}
	if err := SavePrefs(dir, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadPrefs(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if _, err := os.Stat(PrefsPath(dir) + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if _, err := Load(path, &v); err == nil {
		t.Fatalf("expected an error for corrupt json")
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	if err := Save(path, map[string]int{"a": 1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	var v map[string]int
	ok, err := Load(path, &v)
	if ok || err != nil {
		t.Fatalf("Load after remove = %v, %v", ok, err)
	}
}
