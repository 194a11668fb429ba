// Package diag provides diagnostic (error/warning) types shared by the
// scanner and the parser.
package diag

import (
	"fmt"

	"lolcode/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a located diagnostic message. File is the
// originating source file name, carried per-diagnostic (rather than
// assumed from a single compilation unit) since the parser's upstream
// contract requires every token to name its source file.
type Diagnostic struct {
	Code     string    `json:"code"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	File     string    `json:"file"`
	Span     span.Span `json:"span"`
	Hint     string    `json:"hint,omitempty"`
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, prefix, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given file and span.
func Errorf(code, file string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given file and span.
func Warningf(code, file string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Span:     s,
	}
}
