package log

import (
	"io"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestConfig_Options_ApplyToCopy(t *testing.T) {
	base := makeConfig(nil)

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelWarn), func(c config) bool { return c.level == LevelWarn }},
		{"format", WithFormat(FormatJSON), func(c config) bool { return c.format == FormatJSON }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(true), func(c config) bool { return c.pretty }},
		{"output", WithOutput(&strings.Builder{}), func(c config) bool { return c.output != io.Discard }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(base, tt.opt)

			if !tt.check(got) {
				t.Errorf("option %s not applied: %+v", tt.name, got)
			}

			if tt.check(base) {
				t.Errorf("option %s modified the original config", tt.name)
			}
		})
	}
}

func TestConfig_WithDefaults_Resets(t *testing.T) {
	c := apply(config{}, WithLevel(LevelError), WithCaller(true), WithDefaults(nil))

	if c.level != DefaultLevel || c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("WithDefaults left settings behind: %+v", c)
	}

	if c.output != io.Discard {
		t.Error("WithDefaults(nil) should direct output to io.Discard")
	}

	if c.formatTime == nil {
		t.Error("WithDefaults should install a time formatter")
	}
}

func TestConfig_NilOptionIgnored(t *testing.T) {
	c := apply(makeConfig(nil), nil, WithLevel(LevelDebug), nil)

	if c.level != LevelDebug {
		t.Errorf("level = %v, want %v", c.level, LevelDebug)
	}
}

func TestConfig_WithTimeLayout(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-15T09:30:00Z"},
		{"rfc-3339", "2024-03-15T09:30:00Z"},
		{"Kitchen", "9:30AM"},
		{"DateOnly", "2024-03-15"},
		{"date_only", "2024-03-15"},
		{"2006/01/02", "2024/03/15"},
		{"none", ""},
		{"NONE", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(ts); got != tt.want {
				t.Errorf("formatTime(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelTrace - 1, "trace-1"},
		{LevelInfo + 1, "info+1"},
		{LevelError + 3, "error+3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}

			if back := ParseLevel(tt.want); tt.level >= LevelDebug && back != tt.level {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.want, back, tt.level)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelsAndFormats(t *testing.T) {
	if got, want := slices.Collect(Levels()), []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}

	if got, want := slices.Collect(Formats()), []string{"text", "json"}; !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}
