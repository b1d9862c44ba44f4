package log

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

var (
	sampleInt      = 3
	sampleBytes    = []byte("123")
	sampleList     = []int64{10, 0, -10}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("some error")
)

func doLogs() {
	// Some sample logs from existing code.
	Infof("added %d identities to whitelist %x", sampleInt, sampleBytes)
	Debugw("election started", "electionId", "abc123", "private", true)
	Errorf("cannot commit vote: %v", errSample)
	Warnw("various types",
		"list", sampleList,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Error(errSample)
}

func TestCheckInvalidChars(t *testing.T) {
	t.Cleanup(func() { panicOnInvalidChars = false })

	v := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 'w', 'o', 'r', 'l', 'd'}
	panicOnInvalidChars = false
	Init("debug", "stderr", nil)
	Debugf("%s", v)
	// should not panic since env var is false. if it panics, test will fail

	// now enable panic and try again: should recover() and never reach t.Errorf()
	panicOnInvalidChars = true
	Init("debug", "stderr", nil)
	defer func() { recover() }()
	Debugf("%s", v)
	t.Errorf("Debugf(%s) should have panicked because of invalid char", v)
}

func BenchmarkLogger(b *testing.B) {
	logTestWriter = io.Discard // to not grow a buffer
	Init("debug", logTestWriterName, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}

func TestErrorOutput(t *testing.T) {
	t.Cleanup(func() { Init(LogLevelError, "stderr", nil) })

	var errOut strings.Builder
	logTestWriter = io.Discard
	Init(LogLevelDebug, logTestWriterName, &errOut)
	if Level() != LogLevelDebug {
		t.Fatalf("expected level %q, got %q", LogLevelDebug, Level())
	}

	Infow("vote committed", "voter", "abc")
	if errOut.Len() != 0 {
		t.Fatalf("info lines must not reach the error output, got %q", errOut.String())
	}
	Warnw("issuance failed", "voter", "abc")
	if !strings.Contains(errOut.String(), "issuance failed") {
		t.Fatalf("warning not copied to the error output: %q", errOut.String())
	}
}
