package export

import (
	"bytes"
	"fmt"
	"html"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 60rem; margin: 2rem auto; color: #222; }
h1 { border-bottom: 3px solid #F39C12; padding-bottom: .3rem; }
table { border-collapse: collapse; width: 100%%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: .35rem .6rem; }
th { background: #f6f6f6; }
@media print { body { margin: 0; } a { color: inherit; } }
</style>
</head>
<body>
`

const pageTail = `</body>
</html>
`

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders r as a standalone printable page.
func HTML(r analytics.DPR) ([]byte, error) {
	var buf bytes.Buffer
	title := fmt.Sprintf("DPR %s %s", r.Project.Name, r.Date.Format(store.DateLayout))
	fmt.Fprintf(&buf, pageHead, html.EscapeString(title))
	if err := markdown.Convert([]byte(Markdown(r)), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	buf.WriteString(pageTail)
	return buf.Bytes(), nil
}

// ToHTML writes HTML(r) to path.
func ToHTML(r analytics.DPR, path string) error {
	data, err := HTML(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write html file: %w", err)
	}
	return nil
}
