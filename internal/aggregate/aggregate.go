// Package aggregate collects per-page results from concurrent analysis tasks.
package aggregate

import (
	"sync"

	"github.com/hyperifyio/pagedeps/internal/bytelen"
)

// LengthRecord is the measured size of one page.
type LengthRecord struct {
	Label     string `json:"label"`
	Bytes     int    `json:"bytes"`
	Charset   string `json:"charset"`
	Specified bool   `json:"specified"`
}

// Descriptor renders the record like bytelen.Length.String.
func (r LengthRecord) Descriptor() string {
	return bytelen.Length{Bytes: r.Bytes, Charset: r.Charset, Specified: r.Specified}.String()
}

// DependencyRecord is one script reference found on one page.
type DependencyRecord struct {
	Label      string `json:"label"`
	Dependency string `json:"dependency"`
}

// Frequency is the number of references to one dependency across all pages.
type Frequency struct {
	Dependency  string `json:"dependency"`
	Occurrences int    `json:"occurrences"`
}

// Failure is an entry that produced no records.
type Failure struct {
	Label    string `json:"label"`
	Location string `json:"location"`
	Stage    string `json:"stage"`
	Err      error  `json:"-"`
	Message  string `json:"error"`
}

// Result is a point-in-time copy of everything an Aggregator holds.
type Result struct {
	Lengths      []LengthRecord     `json:"lengths"`
	Dependencies []DependencyRecord `json:"dependencies"`
	Frequencies  []Frequency        `json:"frequencies"`
	Failures     []Failure          `json:"failures"`
}

// Occurrences returns the frequency table as a map.
func (r Result) Occurrences() map[string]int {
	m := make(map[string]int, len(r.Frequencies))
	for _, f := range r.Frequencies {
		m[f.Dependency] = f.Occurrences
	}
	return m
}

// Aggregator is the shared accumulator for one run. All methods are safe for
// concurrent use and each call is applied atomically.
type Aggregator struct {
	mu      sync.Mutex
	lengths []LengthRecord
	deps    []DependencyRecord
	counts  map[string]int
	order   []string // dependency names by first occurrence
	fails   []Failure
}

func New() *Aggregator {
	return &Aggregator{counts: make(map[string]int)}
}

// RecordLength appends a length record for label.
func (a *Aggregator) RecordLength(label string, l bytelen.Length) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recordLength(label, l)
}

// RecordDependency appends a dependency record and bumps its occurrence count.
func (a *Aggregator) RecordDependency(label, dependency string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recordDependency(label, dependency)
}

// RecordPage records a page's length and all of its dependencies under one
// lock, so a concurrent Snapshot sees either all of the page or none of it.
func (a *Aggregator) RecordPage(label string, l bytelen.Length, deps []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recordLength(label, l)
	for _, d := range deps {
		a.recordDependency(label, d)
	}
}

// RecordFailure notes an entry that was dropped.
func (a *Aggregator) RecordFailure(f Failure) {
	if f.Err != nil && f.Message == "" {
		f.Message = f.Err.Error()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fails = append(a.fails, f)
}

func (a *Aggregator) recordLength(label string, l bytelen.Length) {
	a.lengths = append(a.lengths, LengthRecord{Label: label, Bytes: l.Bytes, Charset: l.Charset, Specified: l.Specified})
}

func (a *Aggregator) recordDependency(label, dependency string) {
	a.deps = append(a.deps, DependencyRecord{Label: label, Dependency: dependency})
	if _, ok := a.counts[dependency]; !ok {
		a.order = append(a.order, dependency)
	}
	a.counts[dependency]++
}

// Snapshot copies the current state. Frequencies are listed in the order each
// dependency was first recorded.
func (a *Aggregator) Snapshot() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := Result{
		Lengths:      append([]LengthRecord(nil), a.lengths...),
		Dependencies: append([]DependencyRecord(nil), a.deps...),
		Frequencies:  make([]Frequency, 0, len(a.order)),
		Failures:     append([]Failure(nil), a.fails...),
	}
	for _, name := range a.order {
		res.Frequencies = append(res.Frequencies, Frequency{Dependency: name, Occurrences: a.counts[name]})
	}
	return res
}
