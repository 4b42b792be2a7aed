package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %s", "warn")
	l.Error("shown %s", "error")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug/info should be filtered, got %q", out.String())
	}
	if !strings.Contains(out.String(), "shown warn") {
		t.Errorf("warn missing from stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown error") {
		t.Errorf("error missing from stderr: %q", errOut.String())
	}
}

func TestLoggerKeepsPercentInArgs(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out, LevelDebug)

	l.Info("title: %s", "100% bezwypadkowy")
	if !strings.Contains(out.String(), "100% bezwypadkowy") {
		t.Errorf("argument altered: %q", out.String())
	}
}
