package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type ansi string

const (
	ansiReset ansi = "\033[0m"
	ansiBold  ansi = "\033[1m"
	ansiRed   ansi = "\033[31m"
	ansiCyan  ansi = "\033[36m"
	ansiGray  ansi = "\033[90m"
)

// colorEnabled controls whether Format emits ANSI escapes. It starts off
// when NO_COLOR is set.
var colorEnabled = os.Getenv("NO_COLOR") == ""

// DisableColors turns ANSI output off.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI output on.
func EnableColors() { colorEnabled = true }

func paint(text string, codes ...ansi) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	var b strings.Builder
	for _, c := range codes {
		b.WriteString(string(c))
	}
	b.WriteString(text)
	b.WriteString(string(ansiReset))
	return b.String()
}

// detailWidth is the wrap width of the detail paragraph.
const detailWidth = 72

// Format renders the error as a multi-line block for a terminal:
// header, location with source excerpt, detail, hint and cause.
func (e *Error) Format() string {
	var b strings.Builder

	header := "ERROR"
	if e.Code != "" {
		header += " " + e.Code
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", paint(header+":", ansiBold, ansiRed), paint(e.Message, ansiBold))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(e.Location.String(), ansiCyan))
		if len(e.Context) > 0 {
			e.writeExcerpt(&b)
			b.WriteByte('\n')
		}
	}

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint("Hint: ", ansiCyan), e.Suggestion)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n", paint("Cause: ", ansiGray), e.Wrapped.Error())
	}
	return b.String()
}

// writeExcerpt prints the context lines with a gutter, marking the error
// line and column.
func (e *Error) writeExcerpt(b *strings.Builder) {
	first := e.ContextStart
	if first == 0 {
		first = e.Location.Line - len(e.Context)/2
	}
	gutter := paint(" | ", ansiGray)
	for i, src := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, gutter, src)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", paint("> ", ansiRed), n, gutter, src)
		if col := e.Location.Column; col > 0 {
			fmt.Fprintf(b, "        %s%s%s\n", paint("| ", ansiGray), strings.Repeat(" ", col-1), paint("^", ansiRed))
		}
	}
}

// FormatCompact returns "file:line:col: CODE: message".
func (e *Error) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
}

// FormatJSON returns the error as a compact JSON object, as served by the
// HTTP API.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if l := e.Location; l != nil {
		out.Location = &jsonLocation{File: l.File, Line: l.Line, Column: l.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text on spaces into lines of at most width bytes. A
// single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}

// FprintError writes err to w, using Format when err is or wraps an
// *Error.
func FprintError(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", ansiBold, ansiRed), err.Error())
}

// PrintError writes err to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}
