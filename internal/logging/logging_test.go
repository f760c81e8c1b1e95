package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRotatingHandlerWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	handler, rotator := NewRotatingHandler(RotatingHandlerOptions{
		Directory: dir,
		Filename:  "test.log",
		Level:     slog.LevelInfo,
	})
	defer rotator.Close()

	logger := slog.New(handler)
	logger.Info("sweep started", "workers", 4)

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty after logging a message")
	}
}

func TestNewRotatingHandlerDefaultsFilename(t *testing.T) {
	dir := t.TempDir()
	_, rotator := NewRotatingHandler(RotatingHandlerOptions{Directory: dir})
	defer rotator.Close()

	want := filepath.Join(dir, "losengine.log")
	if rotator.Filename != want {
		t.Errorf("Filename = %q, want %q", rotator.Filename, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
