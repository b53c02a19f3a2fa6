// Package serial provides the devices that can sit on the link port.
package serial

import (
	"log/slog"
	"strings"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
)

const (
	scStart = 7
	scClock = 0

	// transferCycles is the DMG internal clock cost of shifting out one byte.
	transferCycles = 4096
	// disconnectedRX is what SB holds after a transfer with no peer attached.
	disconnectedRX = 0xFF
)

// LogSink is a link port with nothing on the other end. Outgoing bytes are
// collected as text and logged one line at a time, which is how test ROMs
// report their results.
type LogSink struct {
	onComplete func()
	logger     *slog.Logger

	sb, sc    byte
	active    bool
	countdown int
	immediate bool

	line   []byte
	output strings.Builder
}

// LogSinkOption configures a LogSink.
type LogSinkOption func(*LogSink)

// WithFixedTiming completes transfers after 4096 clocks instead of as soon as
// they start.
func WithFixedTiming() LogSinkOption { return func(s *LogSink) { s.immediate = false } }

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) LogSinkOption { return func(s *LogSink) { s.logger = logger } }

// NewLogSink returns a sink that calls onComplete at the end of every
// transfer. The aggregate wires it to the Serial interrupt.
func NewLogSink(onComplete func(), opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		onComplete: onComplete,
		logger:     slog.Default(),
		immediate:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | 0x7E
	default:
		return 0xFF
	}
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value & 0x81
		s.start()
	}
}

// Tick counts down an active transfer when fixed timing is on.
func (s *LogSink) Tick(cycles int) {
	if s.immediate || !s.active {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.complete()
	}
}

// Output returns everything sent so far.
func (s *LogSink) Output() string {
	return s.output.String()
}

// start begins a transfer when SC has both the start and internal clock bits.
// With an external clock there is no peer to drive it, so nothing happens.
func (s *LogSink) start() {
	if s.active || !bit.IsSet(scStart, s.sc) || !bit.IsSet(scClock, s.sc) {
		return
	}

	s.collect(s.sb)

	if s.immediate {
		s.complete()
		return
	}
	s.active = true
	s.countdown = transferCycles
}

func (s *LogSink) collect(b byte) {
	if b != 0 {
		s.output.WriteByte(b)
	}

	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
		return
	}
	s.line = append(s.line, b)
}

func (s *LogSink) complete() {
	s.sb = disconnectedRX
	s.sc = bit.Clear(scStart, s.sc)
	s.active = false
	s.countdown = 0
	if s.onComplete != nil {
		s.onComplete()
	}
}
