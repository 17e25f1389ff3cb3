package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netsketch.log")

	cfg := DefaultConfig()
	cfg.File = path
	log := NewLogger(cfg)
	log.Info("session started", zap.String("diagram", "lab"))
	if err := log.Sync(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("log file missing entry: %s", data)
	}
	if !strings.Contains(string(data), `"diagram":"lab"`) {
		t.Errorf("file core not JSON encoded: %s", data)
	}
}

func TestNewLoggerWithoutSinksIsNop(t *testing.T) {
	cfg := DefaultConfig()
	log := NewLogger(cfg)

	// Must not panic and must swallow output silently.
	log.Error("dropped")
	if log.Core().Enabled(0) {
		t.Error("expected a no-op core")
	}
}

func TestNewLoggerBadLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netsketch.log")
	cfg := DefaultConfig()
	cfg.File = path
	cfg.Level = "chatty"

	log := NewLogger(cfg)
	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry passed an info-level logger")
	}
	if !strings.Contains(string(data), "visible") {
		t.Error("info entry missing")
	}
}
