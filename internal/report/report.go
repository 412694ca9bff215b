// Package report renders the outcome of an audit run. Every format shows
// the same three views in order: page lengths, dependencies per page and
// dependency frequencies, followed by failed entries when there are any.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
)

// Renderer writes a finished aggregate to w.
type Renderer interface {
	Render(w io.Writer, res aggregate.Result) error
}

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatMarkdown, FormatJSON, FormatPDF}

// ParseFormat accepts a format name case-insensitively. Empty selects the
// table format and "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch v := Format(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case FormatTable, FormatMarkdown, FormatJSON, FormatPDF:
		return v, nil
	}
	return "", fmt.Errorf("unknown report format %q (want one of %s)", s, formatList())
}

// Binary reports whether the format must be written to a file rather than a
// terminal.
func (f Format) Binary() bool { return f == FormatPDF }

// New returns the Renderer for f.
func New(f Format) (Renderer, error) {
	switch f {
	case FormatTable, "":
		return TableRenderer{}, nil
	case FormatMarkdown:
		return MarkdownRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{Indent: "  "}, nil
	case FormatPDF:
		return PDFRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", string(f))
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Section titles and column headers shared by the tabular formats.
const (
	titleLengths      = "Length:"
	titleDependencies = "Dependencies:"
	titleFrequencies  = "Frequency:"
	titleFailures     = "Failures:"
)

var (
	headerLengths      = []string{"Page", "Length"}
	headerDependencies = []string{"Page", "Dependency"}
	headerFrequencies  = []string{"Dependency", "Occurrences"}
	headerFailures     = []string{"Page", "Location", "Stage", "Error"}
)

func lengthRows(res aggregate.Result) [][]string {
	rows := make([][]string, 0, len(res.Lengths))
	for _, l := range res.Lengths {
		rows = append(rows, []string{l.Label, l.Descriptor()})
	}
	return rows
}

func dependencyRows(res aggregate.Result) [][]string {
	rows := make([][]string, 0, len(res.Dependencies))
	for _, d := range res.Dependencies {
		rows = append(rows, []string{d.Label, d.Dependency})
	}
	return rows
}

func frequencyRows(res aggregate.Result) [][]string {
	rows := make([][]string, 0, len(res.Frequencies))
	for _, f := range res.Frequencies {
		rows = append(rows, []string{f.Dependency, strconv.Itoa(f.Occurrences)})
	}
	return rows
}

func failureRows(res aggregate.Result) [][]string {
	rows := make([][]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		rows = append(rows, []string{f.Label, f.Location, f.Stage, failureText(f)})
	}
	return rows
}

func failureText(f aggregate.Failure) string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return ""
}
