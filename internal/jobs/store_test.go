package jobs

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Senior Go Engineer", want: "Senior_Go_Engineer"},
		{in: "Café / Bäckerei: Lead?", want: "Cafe_Backerei_Lead"},
		{in: "  --__..  ", want: "untitled"},
		{in: "", want: "untitled"},
		{in: "Data-Engineer (m/w/d)", want: "Data_Engineer_m_w_d"},
		{in: "Acme, Inc.", want: "Acme,_Inc"},
		{in: strings.Repeat("a", 100), want: strings.Repeat("a", 80)},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Fatalf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	store.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local) }

	record := &Record{
		JobTitle:         "Platform Engineer",
		Company:          "Zürich Labs",
		Location:         "Remote",
		RequiredSkills:   []string{"Go", "Kubernetes"},
		NiceToHaveSkills: []string{},
		Responsibilities: []string{"Own the platform"},
		Qualifications:   []string{},
		JobText:          "Line one\nLine two",
		Match:            EmptyMatch(),
	}

	path, err := store.Save(record)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := filepath.Join(dir, "20250314", "20250314_092653_Platform_Engineer_Zurich_Labs.json")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if record.DateAdded != "2025-03-14 09:26:53" || record.DateApplied != "" {
		t.Fatalf("unexpected dates: %q %q", record.DateAdded, record.DateApplied)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"job_title\": \"Platform Engineer\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", data)
	}
	if !strings.Contains(string(data), "Zürich Labs") {
		t.Fatalf("expected UTF-8 text to be written verbatim")
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, record) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, record)
	}

	paths, err := store.List()
	if err != nil || len(paths) != 1 || paths[0] != path {
		t.Fatalf("List() = %v, %v", paths, err)
	}
}

func TestStoreSaveUsesUnknownCompany(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local) }

	path, err := store.Save(&Record{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "20250102_030405_untitled_unknown.json" {
		t.Fatalf("unexpected file name %q", filepath.Base(path))
	}
}

func TestStoreSaveKeepsEmptyTextFields(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Save(NewRecord())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	for _, key := range []string{`"summary": ""`, `"url": ""`, `"job_text": ""`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in saved record:\n%s", key, data)
		}
	}
}

func TestListMissingDir(t *testing.T) {
	paths, err := NewStore(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || paths != nil {
		t.Fatalf("List() = %v, %v", paths, err)
	}
}
