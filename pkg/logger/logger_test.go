package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if Named("test") == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithFormat(FormatJSON), WithCaller(false)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().With(String("run", "r-1")).Info(ctx, "scored", Float64("score", 0.63), Error(errors.New("boom")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if line["msg"] != "scored" || line["run"] != "r-1" || line["score"] != 0.63 {
		t.Errorf("unexpected fields: %v", line)
	}
	if _, ok := line["source"]; ok {
		t.Errorf("source should be omitted: %v", line)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer SetLevel(0)

	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn, got %q", buf.String())
	}
	Get().Warn(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Error("warn should be written")
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestScopedLevel(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(slog.LevelDebug))

	l.Debug(context.Background(), "fallback")
	if buf.Len() == 0 {
		t.Error("debug should be written by a debug-scoped logger")
	}
	if Get().(*slogLogger).logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("global level must stay at info")
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	NewNop().Named("x").With(Int("n", 1)).Error(context.Background(), "discarded")
}
