// Package report writes markdown tables for the generated summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"
)

// Table is a markdown table with an optional heading line above it.
type Table struct {
	Heading string
	Header  []string
	Rows    [][]string
}

// Render writes t to w as GitHub-flavored markdown.
func Render(w io.Writer, t Table) error {
	if len(t.Header) == 0 {
		return fmt.Errorf("render table: no header columns")
	}

	md := markdown.NewMarkdown(w)
	if t.Heading != "" {
		md.PlainText(t.Heading)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Header))
		for j := range cells {
			if j < len(row) {
				cells[j] = escapeCell(row[j])
			}
		}
		rows[i] = cells
	}

	md.Table(markdown.TableSet{
		Header: t.Header,
		Rows:   rows,
	})
	return md.Build()
}

// WriteFile renders t to path, creating parent directories.
func WriteFile(path string, t Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Render(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// escapeCell keeps cell text on one line and stops a literal pipe from
// starting a new column.
func escapeCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
