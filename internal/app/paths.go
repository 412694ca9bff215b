package app

import (
	"path/filepath"
	"strings"

	"github.com/hyperifyio/pagedeps/internal/report"
)

// deriveOutputPath picks a report path next to the input list for formats
// that cannot go to a terminal, e.g. "sites.csv" becomes "sites.pdf".
func deriveOutputPath(inputPath string, f report.Format) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if base == "" || strings.HasSuffix(base, string(filepath.Separator)) {
		base = filepath.Join(base, "report")
	}
	return base + "." + string(f)
}
