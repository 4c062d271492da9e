package middleware

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerEscapesStrings(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggerWithWriter(&buf, WithLogFormat(LogFormatJSON), WithIncludeArgs(true))

	ctx := NewMockContext()
	ctx.SetArgs([]string{`a "quoted"`, "line1\nline2"})

	if err := mw(successHook)(ctx); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"args":[`) {
		t.Fatalf("missing args array: %s", out)
	}
	if !strings.Contains(out, `\"quoted\"`) {
		t.Fatalf("expected escaped quotes in args, got: %s", out)
	}
	if !strings.Contains(out, `line1\nline2`) {
		t.Fatalf("expected escaped newline in args, got: %s", out)
	}
}

func TestJSONLoggerIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	mw := LoggerWithWriter(&buf, WithLogFormat(LogFormatJSON))
	_ = mw(func(Context) error {
		return &ValidationError{Field: "port", Message: "out of range"}
	})(NewMockContext())

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if entry["level"] != "ERROR" || entry["command"] != "app test" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	meta, _ := entry["metadata"].(map[string]any)
	if meta["field"] != "port" {
		t.Fatalf("expected field metadata, got %v", entry["metadata"])
	}
}
