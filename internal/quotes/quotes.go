// Package quotes reads and writes quote files.
//
// A quote file holds the quote on its first line and an optional metadata
// line of the form [[BOOK: title]][[AUTHOR: name]] on the second.
package quotes

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/verte-zerg/typeracer/internal/model"
	"github.com/verte-zerg/typeracer/internal/textnorm"
)

// ErrNoQuotes is returned when the directory holds no quote files.
var ErrNoQuotes = errors.New("no quote files found")

var (
	bookPattern   = regexp.MustCompile(`\[\[BOOK:\s*([^\]]+)\]\]`)
	authorPattern = regexp.MustCompile(`\[\[AUTHOR:\s*([^\]]+)\]\]`)
	numberPattern = regexp.MustCompile(`^quote_(\d+)\.txt$`)
)

// Dir serves random quotes from a directory of *.txt files.
type Dir struct {
	path string
	rnd  *rand.Rand
}

// NewDir returns a Dir. A nil rnd is replaced by a time-seeded source.
func NewDir(path string, rnd *rand.Rand) *Dir {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Dir{path: path, rnd: rnd}
}

// Path returns the quote directory.
func (d *Dir) Path() string {
	return d.path
}

// Files lists quote files in lexical order.
func (d *Dir) Files() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNoQuotes, d.path)
		}
		return nil, fmt.Errorf("failed to read quote directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(d.path, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Next loads a randomly chosen quote.
func (d *Dir) Next() (model.Quote, error) {
	files, err := d.Files()
	if err != nil {
		return model.Quote{}, err
	}
	if len(files) == 0 {
		return model.Quote{}, fmt.Errorf("%w in %s", ErrNoQuotes, d.path)
	}
	return Load(files[d.rnd.Intn(len(files))])
}

// NextNumber returns the first unused quote_<n> number.
func (d *Dir) NextNumber() (int, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to read quote directory: %w", err)
	}
	highest := 0
	for _, entry := range entries {
		m := numberPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

// Save writes a new quote file and returns its path.
func (d *Dir) Save(text, book, author string) (string, error) {
	text = cleanLine(text)
	if text == "" {
		return "", fmt.Errorf("quote text must not be empty")
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create quote directory: %w", err)
	}
	n, err := d.NextNumber()
	if err != nil {
		return "", err
	}
	path := filepath.Join(d.path, fmt.Sprintf("quote_%d.txt", n))

	tmpFile, err := os.CreateTemp(d.path, "quote-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp quote: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := fmt.Fprintln(writer, text); err != nil {
		return "", fmt.Errorf("failed to write quote: %w", err)
	}
	if _, err := fmt.Fprintln(writer, FormatMetadata(book, author)); err != nil {
		return "", fmt.Errorf("failed to write quote metadata: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush quote: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close quote: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write quote: %w", err)
	}
	return path, nil
}

// FindSimilar returns the first stored quote that differs from text by at
// most one edit per ten runes, ignoring case, accents and quote style.
func (d *Dir) FindSimilar(text string) (string, bool, error) {
	files, err := d.Files()
	if err != nil {
		if errors.Is(err, ErrNoQuotes) {
			return "", false, nil
		}
		return "", false, err
	}
	want := similarityKey(text)
	limit := len([]rune(want)) / 10
	for _, path := range files {
		q, err := Load(path)
		if err != nil {
			continue
		}
		if levenshtein.ComputeDistance(want, similarityKey(q.Text)) <= limit {
			return path, true, nil
		}
	}
	return "", false, nil
}

func similarityKey(text string) string {
	return strings.ToLower(textnorm.Canonical(cleanLine(text)))
}

// Load reads a single quote file.
func Load(path string) (model.Quote, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to read quote: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	text := textnorm.NormalizePunct(cleanLine(lines[0]))
	if text == "" {
		return model.Quote{}, fmt.Errorf("quote file %s is empty", path)
	}
	var meta string
	if len(lines) > 1 {
		meta = ParseMetadata(lines[1])
	}
	return model.Quote{Text: text, Metadata: meta, Source: path}, nil
}

// ParseMetadata turns a [[BOOK: ..]][[AUTHOR: ..]] line into "book · author".
func ParseMetadata(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	var parts []string
	if m := bookPattern.FindStringSubmatch(line); m != nil {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	if m := authorPattern.FindStringSubmatch(line); m != nil {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	return strings.Join(parts, " · ")
}

// FormatMetadata builds the metadata line stored under a quote.
func FormatMetadata(book, author string) string {
	book = strings.TrimSpace(book)
	if book == "" {
		book = "Unknown"
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = "Unknown"
	}
	return fmt.Sprintf("[[BOOK: %s]][[AUTHOR: %s]]", book, author)
}

// cleanLine drops control characters and collapses surrounding space.
func cleanLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
