package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "tree error",
			code:    "E100",
			wantMsg: "Invalid tree document",
			wantCat: CategoryTree,
		},
		{
			name:    "config error",
			code:    "E121",
			wantMsg: "Config invalid",
			wantCat: CategoryConfig,
		},
		{
			name:    "server error",
			code:    "E160",
			wantMsg: "Unknown session",
			wantCat: CategoryServer,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "tree.json")
	if err.Message != `file "tree.json" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "tree.json" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E101")
	if got, want := err.Error(), "E101: Invalid node"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("E120").Wrap(stderrors.New("permission denied"))
	if got, want := wrapped.Error(), "E120: Config file unreadable: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &Error{Message: "test error"}
	if bare.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "test error")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "tree.json")
	content := "{\n  \"sel\": \"div\",\n  \"text\": \"a\",\n  \"children\": []\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E101").WithLocation(tmpFile, 3, 3)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 3 || err.Location.Column != 3 {
		t.Errorf("Location = %v, want line 3 col 3", err.Location)
	}
	if len(err.Context) != 5 || err.ContextStart != 1 {
		t.Errorf("Context = %q from line %d, want 5 lines from 1", err.Context, err.ContextStart)
	}
}

func TestError_At(t *testing.T) {
	src := []byte("{\n  \"sel\": \"p\",\n  oops\n}\n")
	var syntaxErr *json.SyntaxError
	if !stderrors.As(json.Unmarshal(src, new(any)), &syntaxErr) {
		t.Fatal("expected a syntax error")
	}
	err := New("E100").At("<stdin>", src, syntaxErr.Offset)

	// The caret sits on the first byte of "oops".
	if got := err.Location.String(); got != "<stdin>:3:3" {
		t.Errorf("Location = %s, want <stdin>:3:3", got)
	}
	want := []string{"{", `  "sel": "p",`, "  oops", "}"}
	if len(err.Context) != len(want) || err.ContextStart != 1 {
		t.Fatalf("Context = %q from %d", err.Context, err.ContextStart)
	}
	for i := range want {
		if err.Context[i] != want[i] {
			t.Errorf("Context[%d] = %q, want %q", i, err.Context[i], want[i])
		}
	}
}

func TestError_WithLocation_MissingFile(t *testing.T) {
	err := New("E100").WithLocation(filepath.Join(t.TempDir(), "absent.json"), 2, 1)
	if err.Location == nil || err.Location.Line != 2 {
		t.Errorf("Location = %v", err.Location)
	}
	if err.Context != nil {
		t.Errorf("Context = %q, want nil", err.Context)
	}
}

func TestError_Builders(t *testing.T) {
	err := New("E121").
		WithDetailf("unknown backend %q", "ftp").
		WithSuggestion(`Use "disk", "s3" or "none"`)

	if err.Detail != `unknown backend "ftp"` {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != `Use "disk", "s3" or "none"` {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := New("E160").WithDetail("session abc")
	if !stderrors.Is(err, New("E160")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E161")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New("E141").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("E100")
	if FromError(e, "E101") != e {
		t.Error("FromError should return *Error as-is")
	}

	stdErr := stderrors.New("test error")
	if got := FromError(stdErr, "E100"); got.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "with column", loc: &Location{File: "a.json", Line: 10, Column: 5}, want: "a.json:10:5"},
		{name: "without column", loc: &Location{File: "a.json", Line: 10}, want: "a.json:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineCol(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset   int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 2},
	}
	for _, tt := range tests {
		line, col := LineCol(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("LineCol(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E121").
		WithDetail("snapshot.backend must be disk, s3 or none").
		WithSuggestion("Fix vtree.json").
		Wrap(stderrors.New("got ftp"))

	out := err.Format()
	for _, want := range []string{"ERROR E121: Config invalid", "snapshot.backend", "Hint: Fix vtree.json", "Cause: got ftp"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E100")
	err.Location = &Location{File: "t.json", Line: 2, Column: 4}
	if got, want := err.FormatCompact(), "t.json:2:4: E100: Invalid tree document"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	out := New("E140").FormatJSON()
	if !strings.Contains(out, `"code":"E140"`) || !strings.Contains(out, `"category":"snapshot"`) {
		t.Errorf("FormatJSON() = %s", out)
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) != len(registry) {
		t.Errorf("Codes() returned %d codes, want %d", len(codes), len(registry))
	}
	if !slices.IsSorted(codes) {
		t.Errorf("Codes() not sorted: %v", codes)
	}
	for _, code := range codes {
		tmpl, ok := Lookup(code)
		if !ok {
			t.Errorf("Lookup(%q) not found", code)
			continue
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s has an empty template: %+v", code, tmpl)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf strings.Builder
	wrapped := fmt.Errorf("render: %w", New("E160").WithDetail(`no session "x"`))
	FprintError(&buf, wrapped)
	if !strings.Contains(buf.String(), "ERROR E160: ") || !strings.Contains(buf.String(), `no session "x"`) {
		t.Errorf("FprintError(*Error) =\n%s", buf.String())
	}

	buf.Reset()
	FprintError(&buf, stderrors.New("plain"))
	if strings.TrimSpace(buf.String()) != "ERROR: plain" {
		t.Errorf("FprintError(plain) = %q", buf.String())
	}
}

func TestFormat_Excerpt(t *testing.T) {
	DisableColors()
	defer EnableColors()

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte("{\n  \"sel\": \"p\",\n  oops\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out := New("E100").WithLocation(path, 3, 3).Format()
	if !strings.Contains(out, ">    3 |   oops") {
		t.Errorf("excerpt does not mark line 3:\n%s", out)
	}
	if !strings.Contains(out, "|   ^") {
		t.Errorf("excerpt has no column marker:\n%s", out)
	}
}
