package monitoring

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestUseZap(t *testing.T) {
	original := Logf
	defer func() {
		UseZap(nil)
		Logf = original
	}()

	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)
	UseZap(l)

	Logf("pose quality %s for %s", "good", "rig-1")
	if got := logs.Len(); got != 1 {
		t.Fatalf("logged %d entries, want 1", got)
	}
	if msg := logs.All()[0].Message; msg != "pose quality good for rig-1" {
		t.Errorf("message = %q", msg)
	}
	if Zap() != l {
		t.Error("Zap() should return the installed logger")
	}

	UseZap(nil)
	if Zap() == l {
		t.Error("UseZap(nil) should drop the installed logger")
	}
}
