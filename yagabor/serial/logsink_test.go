package serial

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/stretchr/testify/assert"
)

func send(s *LogSink, b byte) {
	s.Write(addr.SB, b)
	s.Write(addr.SC, 0x81)
}

func TestLogSinkImmediate(t *testing.T) {
	completed := 0
	s := NewLogSink(func() { completed++ })

	send(s, 'A')

	assert.Equal(t, 1, completed)
	assert.Equal(t, byte(0xFF), s.Read(addr.SB), "no peer shifts in 0xFF")
	assert.Equal(t, byte(0x7F), s.Read(addr.SC), "start bit cleared")
	assert.Equal(t, "A", s.Output())
}

func TestLogSinkExternalClock(t *testing.T) {
	completed := 0
	s := NewLogSink(func() { completed++ })

	s.Write(addr.SB, 'A')
	s.Write(addr.SC, 0x80)

	assert.Equal(t, 0, completed)
	assert.Equal(t, byte(0xFE), s.Read(addr.SC))
	assert.Empty(t, s.Output())
}

func TestLogSinkFixedTiming(t *testing.T) {
	completed := 0
	s := NewLogSink(func() { completed++ }, WithFixedTiming())

	send(s, 'B')
	assert.Equal(t, 0, completed)

	s.Tick(transferCycles - 4)
	assert.Equal(t, 0, completed)
	assert.Equal(t, byte('B'), s.Read(addr.SB))

	s.Tick(4)
	assert.Equal(t, 1, completed)
	assert.Equal(t, byte(0xFF), s.Read(addr.SB))

	s.Tick(transferCycles)
	assert.Equal(t, 1, completed, "idle sink does not complete again")
}

func TestLogSinkLogsLines(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := NewLogSink(nil, WithLogger(logger))

	for _, b := range []byte("Passed\nnext") {
		send(s, b)
	}

	assert.Contains(t, buf.String(), "line=Passed")
	assert.NotContains(t, buf.String(), "next")
	assert.Equal(t, "Passed\nnext", s.Output())
}
