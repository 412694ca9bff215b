package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/pagedeps/internal/input"
)

// writeWorkspace lays out a list and two local pages under a temp dir and
// makes it the working directory.
func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"fixtures/page.html":  `<script src="lib.js"></script><meta charset="ascii">`,
		"fixtures/other.html": `<html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8"></head><body><script src="/js/lib.js?v=3"></script><script src="app.js"></script></body></html>`,
		"list.csv":            "example,~/fixtures/page.html\nother,./fixtures/other.html\nmissing,~/nope.html\nbroken-line\n",
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
	return dir
}

func testConfig(format string) Config {
	cfg := DefaultConfig()
	cfg.InputPath = "list.csv"
	cfg.Format = format
	return cfg
}

func TestRun_JSONToStdout(t *testing.T) {
	writeWorkspace(t)
	var out bytes.Buffer
	a, err := New(context.Background(), testConfig("json"), &out)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var doc struct {
		Lengths []struct {
			Label     string `json:"label"`
			Charset   string `json:"charset"`
			Specified bool   `json:"specified"`
		} `json:"lengths"`
		Frequencies []struct {
			Dependency  string `json:"dependency"`
			Occurrences int    `json:"occurrences"`
		} `json:"frequencies"`
		Failures []struct {
			Label string `json:"label"`
			Stage string `json:"stage"`
		} `json:"failures"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(doc.Lengths) != 2 {
		t.Fatalf("expected 2 pages, got %+v", doc.Lengths)
	}
	occ := map[string]int{}
	for _, f := range doc.Frequencies {
		occ[f.Dependency] = f.Occurrences
	}
	if occ["lib.js"] != 2 || occ["app.js"] != 1 {
		t.Fatalf("unexpected frequencies %+v", doc.Frequencies)
	}
	if len(doc.Failures) != 1 || doc.Failures[0].Label != "missing" || doc.Failures[0].Stage != "fetch" {
		t.Fatalf("unexpected failures %+v", doc.Failures)
	}
}

func TestRun_MarkdownToFile(t *testing.T) {
	dir := writeWorkspace(t)
	cfg := testConfig("markdown")
	cfg.OutputPath = filepath.Join("out", "report.md")
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "out", "report.md"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{"## Length", "## Dependencies", "## Frequency", "## Failures", "Yes (ascii)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in report:\n%s", want, md)
		}
	}
}

func TestRun_PDFDerivesOutputPath(t *testing.T) {
	dir := writeWorkspace(t)
	a, err := New(context.Background(), testConfig("pdf"), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "list.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("expected a PDF file")
	}
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	cfg := testConfig("table")
	cfg.InputPath = filepath.Join(t.TempDir(), "absent.csv")
	a, err := New(context.Background(), cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, input.ErrRead) {
		t.Fatalf("expected input.ErrRead, got %v", err)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("xml")
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected unknown format to be rejected")
	}
}

func TestNew_ClearsCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "stale.body")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig("table")
	cfg.CacheDir = dir
	cfg.CacheClear = true
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.httpCache == nil || a.httpCache.Dir != dir {
		t.Fatalf("expected HTTP cache in %s", dir)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected cache to be cleared, stat err=%v", err)
	}
}

func TestDeriveOutputPath(t *testing.T) {
	if got := deriveOutputPath("lists/sites.csv", "pdf"); got != filepath.Join("lists", "sites")+".pdf" {
		t.Fatalf("deriveOutputPath = %q", got)
	}
	if got := deriveOutputPath("sites", "pdf"); got != "sites.pdf" {
		t.Fatalf("deriveOutputPath = %q", got)
	}
}

func TestVersion(t *testing.T) {
	if !strings.Contains(Version(), BuildVersion) {
		t.Fatalf("Version() = %q", Version())
	}
}
