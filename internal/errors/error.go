package errors

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
)

// Category groups codes by the part of vtree that raises them.
type Category string

const (
	CategoryTree     Category = "tree"
	CategoryConfig   Category = "config"
	CategorySnapshot Category = "snapshot"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// Location is a 1-based position in an input document. Column 0 means the
// column is unknown.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	s := l.File + ":" + strconv.Itoa(l.Line)
	if l.Column > 0 {
		s += ":" + strconv.Itoa(l.Column)
	}
	return s
}

// Error is a coded error. Code selects a registry entry that supplies the
// category, message and default detail; the rest is filled in by the
// builder methods at the failure site.
type Error struct {
	Code     string
	Category Category
	Message  string
	Detail   string

	Location *Location
	// Context holds the input lines around Location, starting at line
	// ContextStart.
	Context      []string
	ContextStart int

	Suggestion string
	Wrapped    error
}

func (e *Error) Error() string {
	var b bytes.Buffer
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error with the same non-empty code, so
// errors.Is(err, errors.New("E160")) matches any E160 in the chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// excerptRadius is the number of lines kept on each side of a location.
const excerptRadius = 2

// At locates the error in src at a decoder offset, the number of bytes
// read when the error was detected, as in json.SyntaxError.Offset. The
// location points at the last byte read, src[offset-1]. file only labels
// the location.
func (e *Error) At(file string, src []byte, offset int64) *Error {
	line, col := LineCol(src, offset-1)
	e.Location = &Location{File: file, Line: line, Column: col}
	e.Context, e.ContextStart = excerpt(src, line)
	return e
}

// WithLocation locates the error at line and column of a file on disk and
// reads the surrounding lines from it. A file that cannot be read leaves
// the context empty.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context, e.ContextStart = nil, 0
	if src, err := os.ReadFile(file); err == nil {
		e.Context, e.ContextStart = excerpt(src, line)
	}
	return e
}

func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// excerpt returns the lines of src within excerptRadius of line and the
// number of the first one.
func excerpt(src []byte, line int) ([]string, int) {
	lines := bytes.Split(bytes.TrimSuffix(src, []byte("\n")), []byte("\n"))
	if line < 1 || line > len(lines) {
		return nil, 0
	}
	lo := max(1, line-excerptRadius)
	hi := min(len(lines), line+excerptRadius)
	out := make([]string, 0, hi-lo+1)
	for _, l := range lines[lo-1 : hi] {
		out = append(out, string(bytes.TrimRight(l, "\r")))
	}
	return out, lo
}

// New returns a fresh Error for a registered code. Unregistered codes are
// kept with a placeholder message so they still match under errors.Is.
func New(code string) *Error {
	t, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{Code: code, Category: t.Category, Message: t.Message, Detail: t.Detail}
}

// Newf returns an uncoded Error.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError returns err itself when it is already an *Error, and wraps it
// under code otherwise.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}

// LineCol converts a 0-based byte index in data into a 1-based line and
// column. Indexes outside data are clamped.
func LineCol(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:max(offset, 0)]
	line = bytes.Count(head, []byte("\n")) + 1
	col = len(head) - (bytes.LastIndexByte(head, '\n') + 1) + 1
	return line, col
}
