package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Finalize(t *testing.T) {
	dir := t.TempDir()

	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	logFile := filepath.Join(dir, "fontswap.log")
	if err := os.WriteFile(logFile, []byte("started"), 0644); err != nil {
		t.Fatal(err)
	}
	settings := filepath.Join(dir, "fontswap.db")
	if err := os.WriteFile(settings, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("final.log", logFile)
	r.StoreData("imported.json", []byte(`{"rules":[]}`))
	if err := r.StoreCopy("settings.db", settings); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	r.Store("absent", filepath.Join(dir, "does-not-exist"))

	// referenced file is read at the end, copied one keeps old content
	if err := os.WriteFile(logFile, []byte("started\nended"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(settings, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}

	name := r.Name()
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, name)
	if got := files["final.log"]; got != "started\nended" {
		t.Errorf("final.log = %q", got)
	}
	if got := files["settings.db"]; got != "v1" {
		t.Errorf("settings.db = %q, want content at the time of copy", got)
	}
	if got := files["imported.json"]; got != `{"rules":[]}` {
		t.Errorf("imported.json = %q", got)
	}
	if _, ok := files["absent"]; ok {
		t.Error("absent files should be ignored")
	}
	manifest := files["MANIFEST"]
	if !strings.HasPrefix(manifest, "fontswap ") {
		t.Errorf("manifest should start with program identification: %q", manifest)
	}
	for _, want := range []string{"final.log", "imported.json", "settings.db"} {
		if !strings.Contains(manifest, "\t"+want+"\t") {
			t.Errorf("manifest is missing %s:\n%s", want, manifest)
		}
	}
}

func TestReport_StoreDataVersionsNames(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("injected.html", []byte("1"))
	r.StoreData("injected.html", []byte("2"))
	if len(r.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(r.entries))
	}
	for name := range r.entries {
		if filepath.Ext(name) != ".html" {
			t.Errorf("versioned name %q lost extension", name)
		}
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "a.log")
	r.Store("final.log", "a.log")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting path")
		}
	}()
	r.Store("final.log", "b.log")
}

func TestReport_StoreCopyRejectsDirectory(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy("dir", t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("nil report Close() error = %v", err)
	}
	if r.Name() != "" {
		t.Errorf("nil report Name() = %q", r.Name())
	}
	// must not panic
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("nil report StoreCopy() error = %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close() with nil file error = %v", err)
	}
}
