package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Rows is a ready-made Tabular value
type Rows struct {
	Columns []string
	Values  [][]string
}

// Header implements Tabular
func (r Rows) Header() []string { return r.Columns }

// Rows implements Tabular
func (r Rows) Rows() [][]string { return r.Values }

// TableFormatter handles table output formatting
type TableFormatter struct {
	w         io.Writer
	useColors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer, useColors bool) *TableFormatter {
	return &TableFormatter{w: w, useColors: useColors}
}

// Format formats data as a table
func (f *TableFormatter) Format(data any) error {
	t, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("table output is not supported for %T", data)
	}

	rows := t.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(f.w, "No data to display")
		return nil
	}

	table := tablewriter.NewWriter(f.w)
	table.SetHeader(t.Header())
	f.configureTable(table, len(t.Header()))
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// configureTable sets up table appearance
func (f *TableFormatter) configureTable(table *tablewriter.Table, columns int) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetRowLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	if f.useColors && columns > 0 {
		colors := make([]tablewriter.Colors, columns)
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor}
		}
		table.SetHeaderColor(colors...)
	}
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// StatusColor highlights well-known review statuses
func StatusColor(status string, useColors bool) string {
	if !useColors || status == "" {
		return status
	}
	var c *color.Color
	switch {
	case contains(status, "Approved"):
		c = color.New(color.FgGreen)
	case contains(status, "Rejected"):
		c = color.New(color.FgRed)
	case contains(status, "Pending"):
		c = color.New(color.FgYellow)
	default:
		return status
	}
	c.EnableColor()
	return c.Sprint(status)
}

func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
