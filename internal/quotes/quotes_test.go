package quotes

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadNormalizesAndParsesMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quote_1.txt", "  “It’s a trap,” he said.\r\n[[BOOK: Return of the Jedi]][[AUTHOR: Lucas]]\n")
	q, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q.Text != "\"It's a trap,\" he said." {
		t.Fatalf("unexpected text: %q", q.Text)
	}
	if q.Metadata != "Return of the Jedi · Lucas" {
		t.Fatalf("unexpected metadata: %q", q.Metadata)
	}
	if q.Source != path {
		t.Fatalf("expected source %s, got %s", path, q.Source)
	}
}

func TestLoadWithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	q, err := Load(writeFile(t, dir, "a.txt", "Just text."))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q.Metadata != "" {
		t.Fatalf("expected empty metadata, got %q", q.Metadata)
	}
}

func TestLoadEmptyFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(writeFile(t, dir, "empty.txt", "\n\n")); err == nil {
		t.Fatalf("expected error for empty quote")
	}
}

func TestParseMetadata(t *testing.T) {
	cases := map[string]string{
		"[[BOOK: Dune]][[AUTHOR: Frank Herbert]]": "Dune · Frank Herbert",
		"[[AUTHOR: Anonymous]]":                   "Anonymous",
		"[[BOOK:  Spaced  ]]":                     "Spaced",
		"garbage":                                 "",
		"":                                        "",
	}
	for in, want := range cases {
		if got := ParseMetadata(in); got != want {
			t.Fatalf("ParseMetadata(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextMissingDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"), nil)
	if _, err := d.Next(); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}
}

func TestNextEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "not a quote")
	d := NewDir(dir, nil)
	if _, err := d.Next(); !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}
}

func TestNextPicksQuoteFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quote_1.txt", "First quote.\n")
	writeFile(t, dir, "quote_2.txt", "Second quote.\n")
	d := NewDir(dir, rand.New(rand.NewSource(1)))
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		q, err := d.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		seen[q.Text] = true
	}
	if !seen["First quote."] || !seen["Second quote."] {
		t.Fatalf("expected both quotes to be served, got %v", seen)
	}
}

func TestSaveUsesNextNumber(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quote_7.txt", "Old.\n")
	writeFile(t, dir, "quote_x.txt", "Ignored name.\n")
	d := NewDir(dir, nil)

	n, err := d.NextNumber()
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8, got %d", n)
	}

	path, err := d.Save("A new\tquote.", "Book", "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "quote_8.txt" {
		t.Fatalf("unexpected file name: %s", path)
	}
	q, err := Load(path)
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if q.Text != "A new quote." || q.Metadata != "Book · Unknown" {
		t.Fatalf("unexpected saved quote: %+v", q)
	}
}

func TestNextNumberMissingDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "none"), nil)
	n, err := d.NextNumber()
	if err != nil || n != 1 {
		t.Fatalf("expected 1, nil; got %d, %v", n, err)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	d := NewDir(t.TempDir(), nil)
	if _, err := d.Save("  \x01 ", "", ""); err == nil {
		t.Fatalf("expected error for empty quote")
	}
}

func TestFindSimilar(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quote_1.txt", "The quick brown fox jumps over the lazy dog.\n")
	d := NewDir(dir, nil)

	path, ok, err := d.FindSimilar("the quick brown fox jumped over the lazy dog.")
	if err != nil {
		t.Fatalf("find similar: %v", err)
	}
	if !ok || filepath.Base(path) != "quote_1.txt" {
		t.Fatalf("expected near duplicate to be found, got %q %v", path, ok)
	}
	if _, ok, _ := d.FindSimilar("Something else entirely."); ok {
		t.Fatalf("unexpected match for unrelated text")
	}
}

func TestFindSimilarMissingDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "none"), nil)
	if _, ok, err := d.FindSimilar("anything"); ok || err != nil {
		t.Fatalf("expected no match and no error, got %v %v", ok, err)
	}
}
