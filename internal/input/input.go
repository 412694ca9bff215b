// Package input reads the list of pages to audit. Each non-blank line holds
// a label and a location separated by a comma.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrRead reports that the list itself could not be read. Nothing can be
// analysed without it, so callers treat it as fatal.
var ErrRead = errors.New("cannot read input list")

// Entry is one page to audit.
type Entry struct {
	Label    string
	Location string
	// Line is the 1-based line number in the list.
	Line int
}

// LineError describes a line that does not carry both fields.
type LineError struct {
	Line int
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: expected <label>,<location>: %q", e.Line, e.Text)
}

// ReadFile opens path and parses it with Parse. Open and read failures wrap
// ErrRead.
func ReadFile(path string) ([]Entry, []*LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	defer f.Close()
	entries, bad, err := Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return entries, bad, nil
}

// Parse splits every line on commas and keeps the first two fields, trimmed,
// as label and location. Further fields are ignored and blank lines skipped.
// Entries keep list order; duplicates are kept.
func Parse(r io.Reader) ([]Entry, []*LineError, error) {
	var (
		entries []Entry
		bad     []*LineError
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			bad = append(bad, &LineError{Line: n, Text: line})
			continue
		}
		entries = append(entries, Entry{
			Label:    strings.TrimSpace(fields[0]),
			Location: strings.TrimSpace(fields[1]),
			Line:     n,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return entries, bad, nil
}
