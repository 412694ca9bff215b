package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
)

// MarkdownRenderer writes a GitHub-flavoured Markdown document with one table
// per view.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(w io.Writer, res aggregate.Result) error {
	md := markdown.NewMarkdown(w)
	md.H1("Page dependency report")
	md.PlainText("")
	md.PlainTextf("%d pages analysed, %d failed, %d distinct dependencies.",
		len(res.Lengths), len(res.Failures), len(res.Frequencies))
	md.PlainText("")

	writeTable(md, "Length", headerLengths, lengthRows(res))
	writeTable(md, "Dependencies", headerDependencies, dependencyRows(res))
	writeTable(md, "Frequency", headerFrequencies, frequencyRows(res))
	if len(res.Failures) > 0 {
		writeTable(md, "Failures", headerFailures, failureRows(res))
	}
	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown: %w", err)
	}
	return nil
}

func writeTable(md *markdown.Markdown, title string, header []string, rows [][]string) {
	md.H2(title)
	md.PlainText("")
	if len(rows) == 0 {
		md.PlainText("_None._")
		md.PlainText("")
		return
	}
	escaped := make([][]string, len(rows))
	for i, r := range rows {
		escaped[i] = make([]string, len(r))
		for j, c := range r {
			escaped[i][j] = escapeCell(c)
		}
	}
	md.Table(markdown.TableSet{Header: header, Rows: escaped})
	md.PlainText("")
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
