package infra

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	dev, err := NewLogger(false, "")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("development logger should log debug")
	}

	prod, err := NewLogger(true, "")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("production logger should not log debug")
	}

	warn, err := NewLogger(true, "warn")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if warn.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("warn level should drop info")
	}

	if _, err := NewLogger(false, "loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
