package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type bufferWriteCloser struct {
	sync.Mutex
	bytes.Buffer
}

func (b *bufferWriteCloser) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *bufferWriteCloser) Close() error { return nil }

func (b *bufferWriteCloser) String() string {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.String()
}

func TestBackendWritesByLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	infoWriter := &bufferWriteCloser{}
	warnWriter := &bufferWriteCloser{}
	if err := backend.AddLogWriter(infoWriter, LevelInfo); err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	if err := backend.AddLogWriter(warnWriter, LevelWarn); err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if err := backend.AddLogWriter(&bufferWriteCloser{}, LevelInfo); err == nil {
		t.Fatalf("AddLogWriter: expected an error after Run")
	}

	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)
	log.Tracef("trace %d", 1)
	log.Infof("info %d", 2)
	log.Warnf("warn %d", 3)
	backend.Close()

	infoOutput := infoWriter.String()
	if strings.Contains(infoOutput, "trace 1") {
		t.Errorf("trace message was written although the logger level is debug")
	}
	if !strings.Contains(infoOutput, "[INF] TEST: info 2") {
		t.Errorf("info writer is missing the info message: %q", infoOutput)
	}
	if !strings.Contains(infoOutput, "[WRN] TEST: warn 3") {
		t.Errorf("info writer is missing the warn message: %q", infoOutput)
	}

	warnOutput := warnWriter.String()
	if strings.Contains(warnOutput, "info 2") {
		t.Errorf("warn writer unexpectedly got the info message: %q", warnOutput)
	}
	if !strings.Contains(warnOutput, "warn 3") {
		t.Errorf("warn writer is missing the warn message: %q", warnOutput)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in       string
		expected Level
		ok       bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"warn", LevelWarn, true},
		{"off", LevelOff, true},
		{"bogus", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.in)
		if level != test.expected || ok != test.ok {
			t.Errorf("LevelFromString(%q): got (%s, %t), want (%s, %t)",
				test.in, level, ok, test.expected, test.ok)
		}
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	log := RegisterSubSystem("PRSE")
	if err := ParseAndSetLogLevels("PRSE=trace"); err != nil {
		t.Fatalf("ParseAndSetLogLevels: %s", err)
	}
	if log.Level() != LevelTrace {
		t.Fatalf("expected level trace, got %s", log.Level())
	}
	if err := ParseAndSetLogLevels("NOPE=trace"); err == nil {
		t.Fatalf("ParseAndSetLogLevels: expected an error for an unknown subsystem")
	}
	if err := ParseAndSetLogLevels("loud"); err == nil {
		t.Fatalf("ParseAndSetLogLevels: expected an error for an invalid level")
	}
}
