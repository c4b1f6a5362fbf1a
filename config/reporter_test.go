package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	files := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Finalize(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "site.css")
	if err := os.WriteFile(stored, []byte(".foo{ }"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("final.log", filepath.Join(dir, "never-created.log"))
	r.StoreData("corpus.txt", []byte(`<div class="foo"></div>`))
	if err := r.StoreCopy("input/site.css", stored); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// file changes after copy was made
	if err := os.WriteFile(stored, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("input/site.css", stored); err != nil {
		t.Fatalf("second StoreCopy() error = %v", err)
	}
	copies := append([]string(nil), r.copies...)

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["corpus.txt"] != `<div class="foo"></div>` {
		t.Errorf("corpus.txt = %q", files["corpus.txt"])
	}
	if files["input/site.css"] != ".foo{ }" {
		t.Errorf("input/site.css = %q, want content at the time of copy", files["input/site.css"])
	}
	if _, ok := files["final.log"]; ok {
		t.Error("absent file must be skipped")
	}
	if !strings.Contains(files["MANIFEST"], "corpus.txt") {
		t.Errorf("MANIFEST does not list stored data:\n%s", files["MANIFEST"])
	}
	versioned := 0
	for name := range files {
		if strings.HasPrefix(name, "input/site.css-") {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned copy, got %d", versioned)
	}

	for _, c := range copies {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", c)
		}
	}
	// regular stored file is never removed
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("stored file should not be removed: %v", err)
	}
}

func TestReport_StoreCopyDirectory(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy("dir", t.TempDir()); err == nil {
		t.Error("Expected error for directory copy")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// all store methods are safe on nil report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("Name on nil report should be empty")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
