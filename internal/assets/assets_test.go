package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveRootPriority(t *testing.T) {
	base := t.TempDir()
	low := filepath.Join(base, "low")
	high := filepath.Join(base, "high")
	writeFile(t, filepath.Join(low, "sounds", "door.wav"), "low")
	writeFile(t, filepath.Join(high, "sounds", "door.wav"), "high")
	writeFile(t, filepath.Join(low, "only-low.txt"), "x")

	m := NewManager()
	if err := m.AddRoot(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(high); err != nil {
		t.Fatal(err)
	}

	data, err := m.Load(filepath.Join("sounds", "door.wav"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "high" {
		t.Errorf("Load = %q, want the last added root", data)
	}

	p, err := m.Resolve("only-low.txt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p != filepath.Join(low, "only-low.txt") {
		t.Errorf("Resolve = %s", p)
	}
}

func TestResolveMissing(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	tests := []string{"missing.glb", filepath.Join(t.TempDir(), "abs.glb")}
	for _, name := range tests {
		if _, err := m.Resolve(name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%s) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestAddRootRejectsFiles(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	writeFile(t, f, "x")

	m := NewManager()
	if err := m.AddRoot(f); err == nil {
		t.Error("expected error adding a file as root")
	}
	if err := m.AddRoot(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error adding a missing root")
	}
}

func TestLoadCachesAndInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knight.glb")
	writeFile(t, path, "v1")

	m := NewManager()
	if _, err := m.Load(path); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, "v2")

	data, _ := m.Load(path)
	if string(data) != "v1" {
		t.Errorf("second load = %q, want cached v1", data)
	}
	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d/%d, want 1/1", hits, misses)
	}

	m.Invalidate(path)
	data, _ = m.Load(path)
	if string(data) != "v2" {
		t.Errorf("load after invalidate = %q, want v2", data)
	}
}

func TestOpenIsSeekable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "door.wav")
	writeFile(t, path, "RIFF1234")

	m := NewManager()
	r, err := m.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.Seek(4, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != "1234" {
		t.Errorf("after seek = %q", rest)
	}
}

func TestCloseClears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	writeFile(t, path, "x")

	m := NewManager()
	_, _ = m.Load(path)
	if m.Cache().Len() != 1 {
		t.Fatalf("cache len = %d", m.Cache().Len())
	}
	m.Close()
	if m.Cache().Len() != 0 {
		t.Error("Close should clear the cache")
	}
}
