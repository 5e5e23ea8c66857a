package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatTable is the default human-readable format
	FormatTable OutputFormat = "table"
	// FormatJSON outputs as JSON
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs as YAML
	FormatYAML OutputFormat = "yaml"
)

// OutputWriter handles structured output formatting
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates a new output writer with the specified format
func NewOutputWriter(format string) *OutputWriter {
	f := OutputFormat(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatTable
	}
	return &OutputWriter{
		format: f,
		writer: os.Stdout,
	}
}

// SetWriter sets a custom writer (used in tests)
func (w *OutputWriter) SetWriter(writer io.Writer) {
	w.writer = writer
}

func (w *OutputWriter) IsStructured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

// Write outputs data in the configured format. Table output is left to the
// commands.
func (w *OutputWriter) Write(data any) error {
	switch w.format {
	case FormatJSON:
		encoder := json.NewEncoder(w.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w.writer)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		return nil
	}
}

// Printf writes table output.
func (w *OutputWriter) Printf(format string, args ...any) {
	fmt.Fprintf(w.writer, format, args...)
}

// ValidFormats returns a list of valid output formats
func ValidFormats() []string {
	return []string{"table", "json", "yaml"}
}

func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func FormatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Truncate shortens s to n runes for table cells.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
