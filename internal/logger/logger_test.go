package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput("warn", "json", &buf)
	defer Init("info", "text")

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput("debug", "json", &buf)
	defer Init("info", "text")

	Debug("fetching %s", "AAPL")
	if !strings.Contains(buf.String(), `"message":"fetching AAPL"`) {
		t.Errorf("expected JSON message field, got %s", buf.String())
	}
}
