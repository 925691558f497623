// Package format renders command output as a table, JSON or YAML.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Output formats accepted by New
const (
	Table = "table"
	JSON  = "json"
	YAML  = "yaml"
)

// Formatter writes data in one output format
type Formatter interface {
	Format(data any) error
}

// Tabular is implemented by values that know how to lay themselves out as
// rows. The table formatter only accepts Tabular data.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// New returns a formatter for the named output format
func New(format string, w io.Writer, useColors bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case Table, "":
		return NewTableFormatter(w, useColors), nil
	case JSON:
		return NewJSONFormatter(w, true), nil
	case "json-compact":
		return NewJSONFormatter(w, false), nil
	case YAML, "yml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Printer writes status lines, colored when enabled
type Printer struct {
	w         io.Writer
	useColors bool
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer, useColors bool) *Printer {
	return &Printer{w: w, useColors: useColors}
}

// Success prints a success message
func (p *Printer) Success(message string, args ...any) {
	p.print(color.FgGreen, "", message, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(message string, args ...any) {
	p.print(color.FgYellow, "Warning: ", message, args...)
}

// Error prints an error message
func (p *Printer) Error(message string, args ...any) {
	p.print(color.FgRed, "Error: ", message, args...)
}

func (p *Printer) print(attr color.Attribute, plainPrefix, message string, args ...any) {
	if p.useColors {
		c := color.New(attr)
		c.EnableColor()
		_, _ = c.Fprintf(p.w, message+"\n", args...)
		return
	}
	fmt.Fprintf(p.w, plainPrefix+message+"\n", args...)
}
