package sizeanalysis

import (
	"fmt"
	"html/template"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Save file size analysis</title></head>
<body>
<table>
<tr><th>Key</th><th>Size (bytes)</th><th>Percentage</th></tr>
{{- range .}}
<tr><td>{{.Key}}</td><td>{{.Size}}</td><td>{{printf "%.2f" .Percentage}}%</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// WriteHTML renders rows as an HTML table.
func WriteHTML(w io.Writer, rows []Entry) error {
	return htmlReport.Execute(w, rows)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// printer returns a number formatter for locale, falling back to English
// when the tag does not parse.
func printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// RenderText renders rows as a bordered text table with numbers formatted
// for locale.
func RenderText(rows []Entry, total int64, locale string) string {
	p := printer(locale)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Key", "Size (bytes)", "Percentage").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	for _, e := range rows {
		t.Row(e.Key, p.Sprintf("%d", e.Size), p.Sprintf("%.2f%%", e.Percentage))
	}
	return p.Sprintf("Total save file size: %d bytes\n", total) + t.String() + "\n"
}

// WriteReport writes the plain line-per-key report.
func WriteReport(w io.Writer, rows []Entry, total int64) error {
	if _, err := fmt.Fprintf(w, "Total save file size: %d bytes\n", total); err != nil {
		return err
	}
	for _, e := range rows {
		if _, err := fmt.Fprintf(w, "%s: %d bytes (%.2f%%)\n", e.Key, e.Size, e.Percentage); err != nil {
			return err
		}
	}
	return nil
}

// Log streams rows to the global logger.
func Log(rows []Entry) {
	for _, e := range rows {
		zap.L().Info(e.Key,
			zap.Int64("bytes", e.Size),
			zap.String("percentage", fmt.Sprintf("%.2f%%", e.Percentage)))
	}
}
