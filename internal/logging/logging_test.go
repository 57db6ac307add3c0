package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"info", log.InfoLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{" warn ", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)
	l.Debug("hidden")
	l.Info("task added", "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "task added") || !strings.Contains(out, "id=7") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planner.log")
	l, closer, err := Open(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Debug("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestOpenRejectsUnknownLevel(t *testing.T) {
	if _, _, err := Open(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
