package seen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsEmptySet(t *testing.T) {
	dir := t.TempDir()
	set, err := Load(filepath.Join(dir, "seen_cars.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 for missing file", set.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_cars.json")

	if err := Save(path, NewSet("42111111", "39222222")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Len() != 2 || !set.Has("42111111") || !set.Has("39222222") {
		t.Fatalf("unexpected set read back: %v", set.IDs())
	}
}

func TestSaveIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_cars.json")

	if err := Save(path, NewSet("3", "1", "2")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if err := Save(path, NewSet("2", "3", "1")); err != nil {
		t.Fatalf("Save() (2nd) error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() (2nd) error = %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("Save() output differs between identical sets:\n%s\n---\n%s", first, second)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_cars.json")

	if err := Save(path, NewSet("1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "seen_cars.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}
}

func TestLoadCorruptStateFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_cars.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("Load() error = %v, want ErrCorruptState", err)
	}

	// The corrupt file must survive for inspection.
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("ReadFile() error = %v", readErr)
	}
	if string(data) != "{not json" {
		t.Fatalf("corrupt file was modified: %q", data)
	}
}

func TestLoadToleratesNullAndMissingIDs(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"null ids", `{"car_ids": null}`},
		{"missing key", `{}`},
		{"empty file", ""},
		{"whitespace", "\n  \n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "seen_cars.json")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			set, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if set.Len() != 0 {
				t.Fatalf("Len() = %d, want 0", set.Len())
			}
		})
	}
}

func TestSaveEmptySetWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_cars.json")

	if err := Save(path, NewSet()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "{\n  \"car_ids\": []\n}\n"
	if string(data) != want {
		t.Fatalf("Save() wrote %q, want %q", data, want)
	}
}
