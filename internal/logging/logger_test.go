package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerUsesTextHandlerWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})

	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}

	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerJSONCarriesCommonFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, Config{Format: "JSON", Level: "debug", Service: "cricket-insights-service", Version: "1.2.0"})
	logger.Debug("hello", FieldCount, 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if record[FieldService] != "cricket-insights-service" || record[FieldVersion] != "1.2.0" {
		t.Fatalf("expected common fields, got %+v", record)
	}
	if record["msg"] != "hello" {
		t.Fatalf("expected message, got %+v", record)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestContextLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	scoped := newLogger(&buf, Config{})
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatal("expected scoped logger from context")
	}
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback when context has no logger")
	}
	if got := WithLogger(context.Background(), nil); got.Value(loggerKey{}) != nil {
		t.Fatal("expected nil logger not to be stored")
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Debug(nil, "ignored")
	Info(nil, "ignored")
	Warn(nil, "ignored")
	Error(nil, "ignored", errors.New("boom"))

	var buf bytes.Buffer
	logger := newLogger(&buf, Config{})
	Error(logger, "failed", errors.New("boom"), FieldPath, "/api/teams")
	if out := buf.String(); !strings.Contains(out, "error=boom") || !strings.Contains(out, "path=/api/teams") {
		t.Fatalf("expected error and path fields, got %q", out)
	}
}

func TestDebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Debug(newLogger(&buf, Config{Level: "info"}), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug suppressed at info, got %q", buf.String())
	}
	Debug(newLogger(&buf, Config{Level: "debug"}), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
