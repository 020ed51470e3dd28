package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriterJSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)
	log.WithModule("plan").WithField("date", "2024-01-15").Info("plan fetched")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["message"] != "plan fetched" {
		t.Errorf("message = %v, want %q", record["message"], "plan fetched")
	}
	if record["module"] != "plan" {
		t.Errorf("module = %v, want %q", record["module"], "plan")
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want %q", record["level"], "info")
	}
	if _, ok := record["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)
	log.Info("should be dropped")
	log.Debug("should be dropped too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), `"level":"warning"`) {
		t.Errorf("warn level should render as warning, got %q", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)
	log.WithFields(map[string]any{"school": "hh5847", "count": 3}).Debug("paging")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["school"] != "hh5847" {
		t.Errorf("school = %v", record["school"])
	}
	if record["count"] != float64(3) {
		t.Errorf("count = %v", record["count"])
	}
}

func TestMultiHandlerFanOut(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
		nil, // nil handlers are skipped
	)
	log := slog.New(h)
	log.Info("hello")

	if a.Len() == 0 || b.Len() == 0 {
		t.Error("record should reach every handler")
	}
}
