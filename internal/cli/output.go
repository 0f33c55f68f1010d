package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// OutputMode represents the output format.
type OutputMode int

const (
	OutputNormal OutputMode = iota
	OutputMinimal
	OutputJSON
)

var outputMode = OutputNormal

// SetOutputMode sets the global output mode.
func SetOutputMode(mode OutputMode) {
	outputMode = mode
}

// GetOutputMode returns the current output mode.
func GetOutputMode() OutputMode {
	if JSONOutput() {
		return OutputJSON
	}
	return outputMode
}

// Table provides a simple table formatter.
type Table struct {
	w *tabwriter.Writer
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	if len(headers) > 0 {
		t.Row(headers...)
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// Minimal prints minimal output (just the essential value).
func Minimal(value string) {
	fmt.Println(value)
}
