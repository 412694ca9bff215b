package extract

import (
	"reflect"
	"testing"
)

func TestDependencies_DocumentOrderAndDuplicates(t *testing.T) {
	page, err := Parse(`<!doctype html><html><head>
		<script src="a.js"></script>
		<script>var inline = 1;</script>
		<script src="https://cdn.example.com/lib/b.min.js"></script>
	</head><body>
		<script src="a.js"></script>
	</body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := page.Dependencies()
	want := []string{"a.js", "b.min.js", "a.js"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDependencies_StripsQueryAndCarriageReturn(t *testing.T) {
	page, err := Parse("<script src=\"/js/app.js?v=2\r\"></script><script src=\"vendor/x.js\r\"></script>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := page.Dependencies()
	want := []string{"app.js", "x.js"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDependencies_MalformedMarkup(t *testing.T) {
	page, err := Parse(`<div><p>unclosed <script src="one.js" defer async="async" =stray></script><span><script src='two.js'>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := page.Dependencies()
	want := []string{"one.js", "two.js"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDependencies_NoScripts(t *testing.T) {
	page, err := Parse(`<html><body><p>plain</p></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := page.Dependencies(); len(got) != 0 {
		t.Fatalf("expected no dependencies, got %v", got)
	}
}

func TestDependencyName(t *testing.T) {
	cases := map[string]string{
		"lib.js":                        "lib.js",
		"/static/js/main.js":            "main.js",
		"https://cdn.x.com/a/b.js?x=1":  "b.js",
		"//cdn.x.com/c.js?v=1&w=2":      "c.js",
		"app.js\r":                      "app.js",
		"/js/":                          "",
		"https://cdn.x.com/d.js?u=/e/f": "d.js",
	}
	for in, want := range cases {
		if got := DependencyName(in); got != want {
			t.Errorf("DependencyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCharset_FirstQualifyingMetaWins(t *testing.T) {
	page, err := Parse(`<html><head>
		<meta name="viewport" content="width=device-width">
		<meta charset="iso-8859-1">
		<meta http-equiv="Content-Type" content="text/html; charset=utf-8">
	</head></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cs := page.Charset()
	if cs != (Charset{Name: "iso-8859-1", Specified: true}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestCharset_HTTPEquivContent(t *testing.T) {
	page, err := Parse(`<head><meta http-equiv="Content-Type" content="text/html; charset=windows-1252"><meta charset="utf-8"></head>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cs := page.Charset()
	if cs != (Charset{Name: "windows-1252", Specified: true}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestCharset_MetaWithoutContentIsSkipped(t *testing.T) {
	page, err := Parse(`<head><meta name="robots"><meta property="og:title"><meta content="text/html; charset=ascii"></head>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cs := page.Charset()
	if cs != (Charset{Name: "ascii", Specified: true}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestCharset_DefaultWhenUndeclared(t *testing.T) {
	page, err := Parse(`<head><meta name="description" content="no encoding here"></head>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cs := page.Charset()
	if cs != (Charset{Name: "utf8", Specified: false}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestCharset_ContentWithoutValueDoesNotQualify(t *testing.T) {
	page, err := Parse(`<head>
		<meta name="description" content="A charset converter">
		<meta http-equiv="Content-Type" content="text/html; charset">
		<meta charset="utf-8">
	</head><script src="a.js"></script>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cs := page.Charset(); cs != (Charset{Name: "utf-8", Specified: true}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestCharset_ContentWithoutValueFallsBackToDefault(t *testing.T) {
	page, err := Parse(`<head><meta name="description" content="Pick a charset; any charset"></head>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cs := page.Charset(); cs != (Charset{Name: "utf8", Specified: false}) {
		t.Fatalf("unexpected charset %+v", cs)
	}
}

func TestGoqueryExtractor_Extract(t *testing.T) {
	var ex Extractor = GoqueryExtractor{}
	sig, err := ex.Extract(`<script src="lib.js"></script><meta charset="ascii">`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !reflect.DeepEqual(sig.Dependencies, []string{"lib.js"}) {
		t.Fatalf("unexpected dependencies %v", sig.Dependencies)
	}
	if sig.Charset != (Charset{Name: "ascii", Specified: true}) {
		t.Fatalf("unexpected charset %+v", sig.Charset)
	}
}
