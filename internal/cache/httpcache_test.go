package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_SaveAndLoad(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: filepath.Join(t.TempDir(), "http")}
	url := "https://example.com/index.html"
	if err := c.Save(context.Background(), url, "text/html", `"v1"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("<html></html>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(context.Background(), url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.ContentType != "text/html" || meta.URL != url {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, err := c.LoadBody(context.Background(), url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "<html></html>" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestHTTPCache_MissingEntry(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://example.com/none"); err == nil {
		t.Fatalf("expected error for missing meta")
	}
}

func TestHTTPCache_NoDir(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{}
	if err := c.Save(context.Background(), "https://example.com", "", "", "", nil); err == nil {
		t.Fatalf("expected error when dir is not configured")
	}
}

func TestHTTPCache_StrictPerms(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "http")
	c := &HTTPCache{Dir: dir, StrictPerms: true}
	url := "https://example.com/x"
	if err := c.Save(context.Background(), url, "text/html", "etag", "", []byte("hello")); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	key := c.key(url)
	for _, f := range []string{filepath.Join(dir, key+".body"), filepath.Join(dir, key+".meta.json")} {
		finfo, err := os.Stat(f)
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if got := finfo.Mode() & 0o777; got != 0o600 {
			t.Fatalf("%s mode = %o, want 0600", f, got)
		}
	}
}

func TestPurgeByAge_RemovesExpired(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	if err := c.Save(context.Background(), "https://a.com/old", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := c.Save(context.Background(), "https://a.com/new", "text/html", "", "", []byte("new")); err != nil {
		t.Fatalf("save new: %v", err)
	}
	// Backdate the first entry.
	metaPath := c.metaPath(c.key("https://a.com/old"))
	stale, _ := json.Marshal(Entry{URL: "https://a.com/old", SavedAt: time.Now().Add(-48 * time.Hour)})
	if err := os.WriteFile(metaPath, stale, 0o644); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	removed, err := PurgeByAge(context.Background(), dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := c.LoadBody(context.Background(), "https://a.com/old"); err == nil {
		t.Fatalf("expected old body removed")
	}
	if _, err := c.LoadBody(context.Background(), "https://a.com/new"); err != nil {
		t.Fatalf("expected new body kept: %v", err)
	}
}

func TestPurgeByAge_MissingDir(t *testing.T) {
	t.Parallel()
	n, err := PurgeByAge(context.Background(), filepath.Join(t.TempDir(), "absent"), time.Hour)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op on missing dir, got n=%d err=%v", n, err)
	}
}

func TestPurgeByAge_StopsWhenCancelled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	if err := c.Save(context.Background(), "https://a.com/old", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	stale, _ := json.Marshal(Entry{URL: "https://a.com/old", SavedAt: time.Now().Add(-48 * time.Hour)})
	if err := os.WriteFile(c.metaPath(c.key("https://a.com/old")), stale, 0o644); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := PurgeByAge(ctx, dir, time.Hour)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("expected cancelled purge to remove nothing, got n=%d err=%v", n, err)
	}
	if _, err := c.LoadBody(context.Background(), "https://a.com/old"); err != nil {
		t.Fatalf("expected body kept: %v", err)
	}
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.body"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
	if err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
