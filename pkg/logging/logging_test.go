package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/JaimeStill/crudify/pkg/logging"
)

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level    logging.Level
		expected slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("unknown"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.ToSlogLevel(); got != tt.expected {
				t.Errorf("ToSlogLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"debug level", logging.LevelDebug.Validate(), false},
		{"error level", logging.LevelError.Validate(), false},
		{"bad level", logging.Level("verbose").Validate(), true},
		{"text format", logging.FormatText.Validate(), false},
		{"json format", logging.FormatJSON.Validate(), false},
		{"bad format", logging.Format("xml").Validate(), true},
		{"stdout", logging.OutputStdout.Validate(), false},
		{"stderr", logging.OutputStderr.Validate(), false},
		{"bad output", logging.Output("file").Validate(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", tt.err, tt.wantErr)
			}
		})
	}
}

func TestOutput_Writer(t *testing.T) {
	if logging.OutputStderr.Writer() != os.Stderr {
		t.Error("stderr output should write to os.Stderr")
	}
	if logging.OutputStdout.Writer() != os.Stdout {
		t.Error("stdout output should write to os.Stdout")
	}
	if logging.Output("").Writer() != os.Stdout {
		t.Error("unset output should default to os.Stdout")
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{
		Level:  logging.LevelWarn,
		Format: logging.FormatJSON,
	}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "model", "users")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if record["msg"] != "kept" || record["model"] != "users" {
		t.Errorf("record = %v", record)
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{
		Level:  logging.LevelDebug,
		Format: logging.FormatText,
	}, &buf)

	logger.Debug("route registered", "pattern", "GET /api/users")

	if !strings.Contains(buf.String(), `msg="route registered"`) {
		t.Errorf("text output = %q", buf.String())
	}
}
