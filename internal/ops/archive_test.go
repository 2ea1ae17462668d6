package ops

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func readDir(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	got := map[string]string{}
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		got[e.Name()] = string(b)
	}
	return got
}

func TestBackupRestoreSaves_RoundTrip(t *testing.T) {
	src := t.TempDir()
	saves := map[string]string{
		"save.json":                     `{"version":1,"gold":5}`,
		"save.json.bak-20260101T000000": `{"version":0}`,
		"save.db":                       "SQLite format 3",
	}
	writeFiles(t, src, saves)
	writeFiles(t, src, map[string]string{
		"idlerpg.log":          "2026/01/01 saved",
		"save.json.tmp-123456": "{",
	})

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	names, err := BackupSaves(src, archive)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	want := []string{"save.db", "save.json", "save.json.bak-20260101T000000"}
	if !reflect.DeepEqual(want, names) {
		t.Fatalf("archived names: want %v, got %v", want, names)
	}

	restoreDir := filepath.Join(t.TempDir(), "restore")
	if _, err := RestoreSaves(archive, restoreDir, false); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := readDir(t, restoreDir); !reflect.DeepEqual(saves, got) {
		t.Fatalf("restored files mismatch:\nwant=%v\ngot=%v", saves, got)
	}
}

func TestBackupSaves_NothingToBackUp(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"idlerpg.log": "x"})
	if _, err := BackupSaves(src, filepath.Join(t.TempDir(), "b.tar.gz")); err == nil {
		t.Fatal("expected an error for a data dir without saves")
	}
}

func TestRestoreSaves_RefusesToOverwrite(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"save.json": "new"})
	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if _, err := BackupSaves(src, archive); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	dst := t.TempDir()
	writeFiles(t, dst, map[string]string{"save.json": "old"})

	if _, err := RestoreSaves(archive, dst, false); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if got := readDir(t, dst)["save.json"]; got != "old" {
		t.Fatalf("save was overwritten: %q", got)
	}

	if _, err := RestoreSaves(archive, dst, true); err != nil {
		t.Fatalf("forced restore failed: %v", err)
	}
	if got := readDir(t, dst)["save.json"]; got != "new" {
		t.Fatalf("expected forced restore to overwrite, got %q", got)
	}
}

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for name, body := range entries {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return archive
}

func TestRestoreSaves_RejectsUnexpectedEntries(t *testing.T) {
	for _, name := range []string{"../save.json", "nested/save.json", "/etc/passwd", "notes.txt"} {
		archive := writeArchive(t, map[string]string{name: "bad"})
		out := filepath.Join(t.TempDir(), "out")
		if _, err := RestoreSaves(archive, out, true); err == nil {
			t.Fatalf("expected restore to reject entry %q", name)
		}
	}
}

func TestIsSaveFile(t *testing.T) {
	cases := map[string]bool{
		"save.json":                     true,
		"save.db":                       true,
		"save.db-wal":                   true,
		"save.json.bak-20260101T000000": true,
		"save.json.tmp-1":               false,
		"idlerpg.log":                   false,
		"balance.yaml":                  false,
	}
	for name, want := range cases {
		if got := IsSaveFile(name); got != want {
			t.Errorf("IsSaveFile(%q) = %v, want %v", name, got, want)
		}
	}
}
