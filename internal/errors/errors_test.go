package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
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
		{"config error", "S100", "Invalid statekit.json", CategoryConfig},
		{"document error", "S120", "Invalid document", CategoryDocument},
		{"cli error", "S140", "Inspector failed", CategoryCLI},
		{"unknown error code", "S999", "Unknown error", ""},
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

func TestError_Error(t *testing.T) {
	if got, want := New("S121").Error(), "S121: Document must be a JSON object"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("permission denied")
	if got, want := New("S122").Wrap(cause).Error(), "S122: Document not found: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got := Newf(CategoryCLI, "bad %s", "flag").Error(); got != "bad flag" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := New("S122").Wrap(cause)
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "S140") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("S102")
	if got := FromError(orig, "S140"); got != orig {
		t.Error("FromError should return an existing *Error unchanged")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "S140")
	if got.Code != "S140" || !stderrors.Is(got, plain) {
		t.Errorf("FromError = %+v", got)
	}
}

func TestWithLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	content := "{\n  \"a\": 1,\n  \"b\": 2,\n  \"c\": 3,\n  \"d\": 4,\n  \"e\": 5\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("S120").WithLocation(path, 4, 3)
	if err.Location.String() != path+":4:3" {
		t.Errorf("Location = %q", err.Location.String())
	}
	want := []string{`  "b": 2,`, `  "c": 3,`, `  "d": 4,`, `  "e": 5`}
	if len(err.Context) != 5 {
		t.Fatalf("Context has %d lines, want 5", len(err.Context))
	}
	for i, line := range want {
		if err.Context[i+1] != line {
			t.Errorf("Context[%d] = %q, want %q", i+1, err.Context[i+1], line)
		}
	}
}

func TestWithLocation_MissingFile(t *testing.T) {
	err := New("S120").WithLocation("/does/not/exist.json", 3, 1)
	if err.Context != nil {
		t.Errorf("expected no context, got %v", err.Context)
	}
}

func TestWithJSONLocation(t *testing.T) {
	data := []byte("{\n  \"name\": \"Harry\",\n  \"house\": ,\n}")
	var v map[string]any
	decodeErr := json.Unmarshal(data, &v)
	if decodeErr == nil {
		t.Fatal("expected a syntax error")
	}

	err := New("S120").WithJSONLocation("state.json", data, decodeErr)
	if err.Location == nil {
		t.Fatal("expected a location")
	}
	if err.Location.Line != 3 {
		t.Errorf("Line = %d, want 3", err.Location.Line)
	}
	if err.Location.Column < 1 {
		t.Errorf("Column = %d, want >= 1", err.Location.Column)
	}

	plain := New("S120").WithJSONLocation("state.json", data, stderrors.New("other"))
	if plain.Location != nil {
		t.Error("non-JSON errors must not set a location")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("S103").
		WithSuggestion(`Set "backend": "file"`).
		Wrap(stderrors.New(`unknown backend "redis"`))

	out := err.Format()
	for _, want := range []string{
		"ERROR S103: Invalid preference backend",
		"prefs.backend must be one of memory, file or s3.",
		`Cause: unknown backend "redis"`,
		`Hint: Set "backend": "file"`,
		"Learn more: https://statekit.dev/docs/errors/S103",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() emitted colors while disabled")
	}
}

func TestFormatWithLocation(t *testing.T) {
	DisableColors()
	defer EnableColors()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	content := "{\n  \"a\": 1,\n  \"b\": 2,\n  \"c\": 3,\n  \"d\": 4,\n  \"e\": 5\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		line int
		want []string
	}{
		{"middle", 4, []string{
			"       2 │   \"a\": 1,",
			"→    4 │   \"c\": 3,",
			"       6 │   \"e\": 5",
		}},
		{"first line", 1, []string{
			"→    1 │ {",
			"       3 │   \"b\": 2,",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New("S120").WithLocation(path, tt.line, 1).Format()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Format() missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("S120")
	err.Location = &Location{File: "a.json", Line: 2, Column: 5}
	if got, want := err.FormatCompact(), "a.json:2:5: S120: Invalid document"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, New("S101").WithDetail("doc is required"))
	if !strings.Contains(buf.String(), "ERROR S101") || !strings.Contains(buf.String(), "doc is required") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line too long: %q", line)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no codes registered")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Errorf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("S120"); !ok {
		t.Error("S120 should be registered")
	}
}
