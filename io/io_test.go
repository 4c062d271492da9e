package snapio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func clearColorEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
}

func TestSupportsColor(t *testing.T) {
	clearColorEnv(t)
	m := New().WithOut(&bytes.Buffer{})
	if m.SupportsColor() {
		t.Fatalf("a buffer is not a terminal")
	}
	if !m.ForceColor().SupportsColor() {
		t.Fatalf("ForceColor should enable")
	}
	t.Setenv("NO_COLOR", "1")
	if m.SupportsColor() {
		t.Fatalf("NO_COLOR should win over ForceColor")
	}
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	if !m.ColorAuto().SupportsColor() {
		t.Fatalf("FORCE_COLOR should enable")
	}
	if m.NoColor().SupportsColor() {
		t.Fatalf("NoColor should win over FORCE_COLOR")
	}
}

func TestSizeFallback(t *testing.T) {
	m := New().WithOut(&bytes.Buffer{})
	t.Setenv("COLUMNS", "101")
	t.Setenv("LINES", "55")
	if m.Width() != 101 || m.Height() != 55 {
		t.Fatalf("want 101x55, got %dx%d", m.Width(), m.Height())
	}
	t.Setenv("COLUMNS", "wide")
	t.Setenv("LINES", "")
	if m.Width() != 80 || m.Height() != 24 {
		t.Fatalf("want 80x24, got %dx%d", m.Width(), m.Height())
	}
	if m.IsTTY() {
		t.Fatalf("buffer reported as tty")
	}
}

func TestColorize(t *testing.T) {
	clearColorEnv(t)
	m := New().WithOut(&bytes.Buffer{}).ForceColor()
	out := m.Bold("x")
	if !strings.HasPrefix(out, "\x1b[1m") || !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatalf("unexpected ANSI output %q", out)
	}
	if got := m.NoColor().Bold("x"); got != "x" {
		t.Fatalf("NoColor should leave text unchanged, got %q", got)
	}
	if got := Style(nil).Sprint(m.ForceColor(), "plain"); got != "plain" {
		t.Fatalf("empty style changed text: %q", got)
	}
}

func newTestLogger() (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	m := New().WithOut(&out).WithErr(&errOut).NoColor()
	l := NewLogger(m)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC) }
	return l, &out, &errOut
}

func TestLoggerFormats(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Logger)
		log   func(*Logger)
		want  string
	}{
		{
			name:  "tagged",
			setup: func(l *Logger) { l.WithFormat(LogFormatTagged) },
			log:   func(l *Logger) { l.Info("hello %d", 1) },
			want:  "[INFO] hello 1\n",
		},
		{
			name:  "symbols",
			setup: func(l *Logger) { l.WithFormat(LogFormatSymbols) },
			log:   func(l *Logger) { l.Success("done") },
			want:  "✓ done\n",
		},
		{
			name:  "circles",
			setup: func(l *Logger) {},
			log:   func(l *Logger) { l.Info("hi") },
			want:  "🔵 hi\n",
		},
		{
			name:  "plain with timestamp",
			setup: func(l *Logger) { l.WithFormat(LogFormatPlain).WithTimestamp(true) },
			log:   func(l *Logger) { l.Info("hi") },
			want:  "[12:00:00] hi\n",
		},
		{
			name:  "custom prefix",
			setup: func(l *Logger) { l.WithFormat(LogFormatTagged).SetPrefix(LevelInfo, ">>") },
			log:   func(l *Logger) { l.Info("go") },
			want:  ">> go\n",
		},
		{
			name:  "template",
			setup: func(l *Logger) { l.WithFormat(LogFormatTagged).WithTemplate("{{.Level}}|{{.Prefix}}|{{.Message}}|{{.Time}}") },
			log:   func(l *Logger) { l.Info("m") },
			want:  "INFO|[INFO]|m|12:00:00\n",
		},
		{
			name:  "blank passes through",
			setup: func(l *Logger) { l.WithFormat(LogFormatTagged) },
			log:   func(l *Logger) { l.Info("  ") },
			want:  "  \n",
		},
		{
			name:  "debug dropped by default",
			setup: func(l *Logger) {},
			log:   func(l *Logger) { l.Debug("noise") },
			want:  "",
		},
		{
			name:  "debug when enabled",
			setup: func(l *Logger) { l.WithFormat(LogFormatTagged).WithLevel(LevelDebug) },
			log:   func(l *Logger) { l.Debug("noise") },
			want:  "[DEBUG] noise\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, out, _ := newTestLogger()
			tt.setup(l)
			tt.log(l)
			if out.String() != tt.want {
				t.Fatalf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestLoggerErrorsToStderr(t *testing.T) {
	l, out, errOut := newTestLogger()
	l.WithFormat(LogFormatTagged)
	l.Warning("careful")
	l.Error("bad %s", "thing")
	if out.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", out.String())
	}
	if errOut.String() != "[WARN] careful\n[ERROR] bad thing\n" {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}

	l.ErrorsToStderr(false)
	l.Error("now out")
	if out.String() != "[ERROR] now out\n" {
		t.Fatalf("unexpected stdout %q", out.String())
	}
}

func TestLoggerColor(t *testing.T) {
	clearColorEnv(t)
	var out bytes.Buffer
	l := NewLogger(New().WithOut(&out).ForceColor()).WithFormat(LogFormatPlain)
	l.Info("x")
	if out.String() != "\x1b[96mx\x1b[0m\n" {
		t.Fatalf("unexpected colored line %q", out.String())
	}
}

func TestLogLevelString(t *testing.T) {
	if LevelWarning.String() != "WARN" || LogLevel(42).String() != "UNKNOWN" {
		t.Fatalf("unexpected level names")
	}
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	m := New().WithOut(&out).NoColor()
	tbl := NewTable(m, "ID", "VALUE").
		Row("a", "1").
		Row("longer", "日本").
		Row("x", "")
	if err := tbl.Render(); err != nil {
		t.Fatal(err)
	}
	want := "ID      VALUE\n" +
		"a       1\n" +
		"longer  日本\n" +
		"x\n"
	if out.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", out.String(), want)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d", tbl.Len())
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"é", 1},
		{"", 0},
		{"ｶ", 1},
	}
	for _, tt := range tests {
		if got := DisplayWidth(tt.in); got != tt.want {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
