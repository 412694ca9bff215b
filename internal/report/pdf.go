package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/pagedeps/internal/aggregate"
)

// PDFRenderer lays the views out as bordered tables on A4 pages.
type PDFRenderer struct{}

func (PDFRenderer) Render(w io.Writer, res aggregate.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()
	// Core fonts are cp1252; page labels and file names may not be.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Page dependency report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdfTable(pdf, tr, titleLengths, headerLengths, []float64{60, 130}, lengthRows(res))
	pdfTable(pdf, tr, titleDependencies, headerDependencies, []float64{95, 95}, dependencyRows(res))
	pdfTable(pdf, tr, titleFrequencies, headerFrequencies, []float64{150, 40}, frequencyRows(res))
	if len(res.Failures) > 0 {
		pdfTable(pdf, tr, titleFailures, headerFailures, []float64{35, 55, 20, 80}, failureRows(res))
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func pdfTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, header []string, widths []float64, rows [][]string) {
	const rowH = 6.0
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(0, 160, 80)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(pdf.GetStringWidth(title)+4, 8, title, "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], rowH, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		for i, c := range r {
			pdf.CellFormat(widths[i], rowH, fit(pdf, tr(c), widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

// fit shortens s with a trailing ellipsis until it fits in width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
