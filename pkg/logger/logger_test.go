package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newCapturingLogger(buf *bytes.Buffer) *zap.SugaredLogger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(buf), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name     string
		logFn    func()
		contains string
	}{
		{"Debug", func() { Debug("debug msg") }, "debug msg"},
		{"Debugf", func() { Debugf("debug %s", "formatted") }, "debug formatted"},
		{"Debugw", func() { Debugw("debug kv", "key", "val") }, "debug kv"},
		{"Info", func() { Info("info msg") }, "info msg"},
		{"Infof", func() { Infof("info %s", "formatted") }, "info formatted"},
		{"Infow", func() { Infow("info kv", "key", "val") }, "info kv"},
		{"Warn", func() { Warn("warn msg") }, "warn msg"},
		{"Warnf", func() { Warnf("warn %s", "formatted") }, "warn formatted"},
		{"Warnw", func() { Warnw("warn kv", "key", "val") }, "warn kv"},
		{"Error", func() { Error("error msg") }, "error msg"},
		{"Errorf", func() { Errorf("error %s", "formatted") }, "error formatted"},
		{"Errorw", func() { Errorw("error kv", "key", "val") }, "error kv"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			restore := SetForTest(newCapturingLogger(&buf))
			defer restore()

			tc.logFn()

			if !bytes.Contains(buf.Bytes(), []byte(tc.contains)) {
				t.Errorf("log output %q does not contain %q", buf.String(), tc.contains)
			}
		})
	}
}

func TestWarnwEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetForTest(newCapturingLogger(&buf))
	defer restore()

	Warnw("dropping invalid message", "reason", "bad_origin", "frameID", "f1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["reason"] != "bad_origin" {
		t.Errorf("entry[reason] = %v, want bad_origin", entry["reason"])
	}
	if entry["frameID"] != "f1" {
		t.Errorf("entry[frameID] = %v, want f1", entry["frameID"])
	}
}
