// Package export writes Daily Progress Reports to disk.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

// Format is an export file type.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatHTML}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write exports r to path in format f.
func Write(r analytics.DPR, f Format, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(r, path)
	case FormatJSON:
		return ToJSON(r, path)
	case FormatMarkdown:
		return ToMarkdown(r, path)
	case FormatHTML:
		return ToHTML(r, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// FileName is dpr-<project>-<date>.<ext> with the project name slugged.
func FileName(r analytics.DPR, f Format) string {
	return fmt.Sprintf("dpr-%s-%s.%s", slug(r.Project.Name), r.Date.Format(store.DateLayout), f)
}

// Path joins dir and FileName.
func Path(dir string, r analytics.DPR, f Format) string {
	return filepath.Join(dir, FileName(r, f))
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "project"
	}
	return out
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

func formatQty(q float64) string {
	return fmt.Sprintf("%g", q)
}

func formatPct(p float64) string {
	return fmt.Sprintf("%.1f", p)
}
