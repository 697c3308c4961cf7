package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.ErrorLevel,
	}
	for level, want := range cases {
		log, err := New(level, "console")
		if err != nil {
			t.Fatalf("%s: %v", level, err)
		}
		if !log.Core().Enabled(want) {
			t.Fatalf("%s: level %s should be enabled", level, want)
		}
		if want > zapcore.DebugLevel && log.Core().Enabled(want-1) {
			t.Fatalf("%s: level %s should be disabled", level, want-1)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	if _, err := New("info", "json"); err != nil {
		t.Fatalf("json logger: %v", err)
	}
}
