package logger

import (
	"testing"
)

func TestNew_IsSafeBeforeInit(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected non-nil no-op logger")
	}
	// Must not panic.
	l.Log.Info("before init")
}

func TestInit_Levels(t *testing.T) {
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		l := New()
		if err := l.Init(level); err != nil {
			t.Errorf("Init(%q) returned error: %v", level, err)
		}
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}
