package report

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
)

// TableRenderer prints boxed console tables under highlighted headings.
type TableRenderer struct{}

var headingStyle = pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)

type section struct {
	title  string
	header []string
	rows   [][]string
}

func (TableRenderer) Render(w io.Writer, res aggregate.Result) error {
	sections := []section{
		{titleLengths, headerLengths, lengthRows(res)},
		{titleDependencies, headerDependencies, dependencyRows(res)},
		{titleFrequencies, headerFrequencies, frequencyRows(res)},
	}
	if len(res.Failures) > 0 {
		sections = append(sections, section{titleFailures, headerFailures, failureRows(res)})
	}
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w, " "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, headingStyle.Sprint(s.title)); err != nil {
			return err
		}
		data := pterm.TableData{s.header}
		data = append(data, s.rows...)
		out, err := pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(data).
			Srender()
		if err != nil {
			return fmt.Errorf("render %s table: %w", s.title, err)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}
