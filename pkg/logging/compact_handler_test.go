package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("component", "borda").Info("aggregated dataset", "dataset", "GSD", "edges", 42)

	line := buf.String()
	if !strings.HasPrefix(line, "[INFO]  ") {
		t.Errorf("expected INFO prefix, got %q", line)
	}
	for _, want := range []string{"aggregated dataset |", "component=borda", "dataset=GSD", "edges=42"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestCompactHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line should be filtered at info level, got %q", buf.String())
	}

	log.Log(context.Background(), LevelTrace, "still hidden")
	if buf.Len() != 0 {
		t.Errorf("trace line should be filtered at info level, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.HasPrefix(buf.String(), "[WARN]  ") {
		t.Errorf("expected WARN prefix, got %q", buf.String())
	}
}

func TestCompactHandlerShortensRunID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, nil))

	log.Info("run started", "runID", "0123456789abcdef")

	if !strings.Contains(buf.String(), "run=01234567") {
		t.Errorf("expected shortened run ID, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "89abcdef") {
		t.Errorf("run ID was not shortened: %q", buf.String())
	}
}

func TestCompactHandlerQuotesErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, nil))

	log.Error("read failed", "error", "missing column EdgeWeight", "path", "a b.csv")

	line := buf.String()
	if !strings.Contains(line, `error="missing column EdgeWeight"`) {
		t.Errorf("expected quoted error, got %q", line)
	}
	if !strings.Contains(line, `path="a b.csv"`) {
		t.Errorf("expected quoted path, got %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose int
		want    slog.Level
		wantErr bool
	}{
		{"", 0, slog.LevelInfo, false},
		{"", 1, slog.LevelDebug, false},
		{"", 3, LevelTrace, false},
		{"warn", 2, slog.LevelWarn, false},
		{"ERROR", 0, slog.LevelError, false},
		{"chatty", 0, slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.name, tt.verbose)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q, %d) error = %v, wantErr %v", tt.name, tt.verbose, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q, %d) = %v, want %v", tt.name, tt.verbose, got, tt.want)
		}
	}
}

func TestRunIDContext(t *testing.T) {
	id := NewRunID()
	if len(id) != 36 {
		t.Fatalf("expected UUID string, got %q", id)
	}

	ctx := WithRunID(context.Background(), id)
	if got := GetRunID(ctx); got != id {
		t.Errorf("GetRunID() = %q, want %q", got, id)
	}
	if got := GetRunID(context.Background()); got != "" {
		t.Errorf("GetRunID() on bare context = %q, want empty", got)
	}
}
