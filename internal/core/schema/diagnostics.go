package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// Diagnostic is one problem found while loading a schema.
type Diagnostic struct {
	Pos     lexer.Position
	Message string
	Cause   error
}

// String renders the diagnostic as file:line:column: message.
func (d Diagnostic) String() string {
	if d.Pos.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Pos.Filename, d.Pos.Line, d.Pos.Column, d.Message)
}

// Diagnostics accumulates problems so a load reports all of them at once
// instead of stopping at the first.
type Diagnostics struct {
	items []Diagnostic
}

// Push records a problem at pos.
func (d *Diagnostics) Push(pos lexer.Position, format string, args ...any) {
	d.items = append(d.items, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// PushError records err at pos, keeping it reachable through errors.Is.
func (d *Diagnostics) PushError(pos lexer.Position, err error) {
	d.items = append(d.items, Diagnostic{Pos: pos, Message: err.Error(), Cause: err})
}

// HasErrors reports whether any problem was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.items) > 0
}

// Items returns the recorded problems in order.
func (d *Diagnostics) Items() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Err returns nil when no problem was recorded, and an *Error otherwise.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}
	return &Error{Diagnostics: d.Items()}
}

// Error reports every problem found in a schema.
type Error struct {
	Diagnostics []Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.String()
	}
	if len(lines) == 1 {
		return "schema: " + lines[0]
	}
	return fmt.Sprintf("schema: %d errors:\n  %s", len(lines), strings.Join(lines, "\n  "))
}

// Unwrap returns the causes of the diagnostics that carry one.
func (e *Error) Unwrap() []error {
	var causes []error
	for _, d := range e.Diagnostics {
		if d.Cause != nil {
			causes = append(causes, d.Cause)
		}
	}
	return causes
}

// fromParseError turns a participle error into diagnostics.
func fromParseError(err error) *Diagnostics {
	var d Diagnostics
	var perr participle.Error
	if errors.As(err, &perr) {
		d.items = append(d.items, Diagnostic{Pos: perr.Position(), Message: perr.Message(), Cause: err})
		return &d
	}
	d.items = append(d.items, Diagnostic{Message: err.Error(), Cause: err})
	return &d
}

// Pretty renders the diagnostics of err against the schema source with
// the offending line and a caret under the reported column.
func Pretty(err error, source string) string {
	var serr *Error
	if !errors.As(err, &serr) {
		return err.Error()
	}

	errorTitle := color.New(color.FgRed, color.Bold)
	errorDesc := color.New(color.Bold)
	arrowColor := color.New(color.FgCyan, color.Bold)
	lineNumColor := color.New(color.FgCyan, color.Bold)
	offendingColor := color.New(color.FgRed, color.Bold)

	lines := strings.Split(source, "\n")
	var buf bytes.Buffer
	for _, d := range serr.Diagnostics {
		errorTitle.Fprintf(&buf, "error")
		fmt.Fprintf(&buf, ": ")
		errorDesc.Fprintf(&buf, "%s\n", d.Message)
		if d.Pos.Line == 0 || d.Pos.Line > len(lines) {
			continue
		}
		arrowColor.Fprintf(&buf, "  --> ")
		fmt.Fprintf(&buf, "%s:%d\n", d.Pos.Filename, d.Pos.Line)
		lineNumColor.Fprintf(&buf, "   | \n")
		lineNumColor.Fprintf(&buf, "%2d | ", d.Pos.Line)
		fmt.Fprintf(&buf, "%s\n", lines[d.Pos.Line-1])
		lineNumColor.Fprintf(&buf, "   | ")
		fmt.Fprintf(&buf, "%s", strings.Repeat(" ", max(d.Pos.Column-1, 0)))
		offendingColor.Fprintf(&buf, "^\n")
	}
	return buf.String()
}
