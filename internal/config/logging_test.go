package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := SetupLogFile(dir, 5)
	if err != nil {
		t.Fatalf("SetupLogFile failed: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString("hello\n"); err != nil {
		t.Errorf("write to log file: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("log files = %d, want 1", len(matches))
	}
}

func TestSetupLogFile_RotatesOldFiles(t *testing.T) {
	dir := t.TempDir()

	// Seed older files; timestamped names sort chronologically
	old := []string{
		"server-2026-01-01T00-00-00.log",
		"server-2026-01-02T00-00-00.log",
		"server-2026-01-03T00-00-00.log",
	}
	for _, name := range old {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, 2)
	if err != nil {
		t.Fatalf("SetupLogFile failed: %v", err)
	}
	defer f.Close()

	matches, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("log files after cleanup = %d, want 2", len(matches))
	}

	// The oldest files go first; the newest seeded file and the fresh one stay
	for _, name := range old[:2] {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s survived cleanup", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, old[2])); err != nil {
		t.Errorf("newest seeded file removed: %v", err)
	}
}

func TestSetupLogFile_KeepsFilesUnderLimit(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "server-2026-01-01T00-00-00.log"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := SetupLogFile(dir, 5)
	if err != nil {
		t.Fatalf("SetupLogFile failed: %v", err)
	}
	defer f.Close()

	matches, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(matches) != 2 {
		t.Errorf("log files = %d, want 2 (no cleanup below the limit)", len(matches))
	}
}
