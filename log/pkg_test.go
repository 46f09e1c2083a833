package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// useDefault installs l as the package logger until the test ends.
func useDefault(t *testing.T, l Logger) {
	t.Helper()

	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	SetDefault(l)
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Trace", Trace, "TRACE", "trace message"},
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}

			if entry["msg"] != tt.msg || entry["level"] != tt.level || entry["key"] != "value" {
				t.Errorf("unexpected entry %v", entry)
			}
		})
	}
}

func TestPackage_ContextFunctions_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(nil))
	Config(WithOutput(&buf), WithLevel(LevelTrace), WithTimeLayout("none"))

	tests := []struct {
		name string
		fn   func(context.Context, string, ...slog.Attr)
		want string
	}{
		{"TraceContext", TraceContext, "level=TRACE msg=t"},
		{"DebugContext", DebugContext, "level=DEBUG msg=t"},
		{"InfoContext", InfoContext, "level=INFO msg=t"},
		{"WarnContext", WarnContext, "level=WARN msg=t"},
		{"ErrorContext", ErrorContext, "level=ERROR msg=t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(t.Context(), "t")

			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPackage_Config_KeepsSettings(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithFormat(FormatJSON)))
	Config(WithLevel(LevelWarn))

	if got := Default().Format(); got != FormatJSON {
		t.Errorf("Config dropped format: %v", got)
	}

	Info("dropped")
	Warn("kept")

	if out := buf.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPackage_Caller_ReportsCallSite(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithCaller(true), WithFormat(FormatJSON)))

	Info("here")
	InfoContext(t.Context(), "here")

	for line := range strings.Lines(buf.String()) {
		var entry struct {
			Source struct {
				File string `json:"file"`
			} `json:"source"`
		}

		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON %q: %v", line, err)
		}

		if !strings.HasSuffix(entry.Source.File, "pkg_test.go") {
			t.Errorf("source file = %q, want pkg_test.go", entry.Source.File)
		}
	}
}

func TestPackage_With(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, Make(&buf, WithFormat(FormatJSON)))

	With(slog.String("component", "render")).Info("done")

	if !strings.Contains(buf.String(), `"component":"render"`) {
		t.Errorf("attribute missing from %q", buf.String())
	}
}
