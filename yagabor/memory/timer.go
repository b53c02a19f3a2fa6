package memory

import (
	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
)

// timerTaps maps the TAC clock select (bits 1-0) to the bit of the internal
// divider whose falling edge increments TIMA:
//
//	00 -> bit 9 (4096 Hz)
//	01 -> bit 3 (262144 Hz)
//	10 -> bit 5 (65536 Hz)
//	11 -> bit 7 (16384 Hz)
var timerTaps = [4]uint16{9, 3, 5, 7}

const (
	tacEnable = 2
	// TIMA reads 0 for one machine cycle after overflowing, then reloads.
	reloadDelay = 4
)

// Timer implements DIV, TIMA, TMA and TAC.
type Timer struct {
	divider uint16 // DIV is the upper byte
	lastTap bool
	reload  int

	tima, tma, tac byte

	onOverflow func()
}

// NewTimer returns a timer that calls onOverflow whenever TIMA reloads from TMA.
func NewTimer(onOverflow func()) *Timer {
	return &Timer{onOverflow: onOverflow}
}

// Tick advances the timer by the given amount of system clocks.
func (t *Timer) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		t.divider++

		if t.reload > 0 {
			t.reload--
			if t.reload == 0 {
				t.tima = t.tma
				if t.onOverflow != nil {
					t.onOverflow()
				}
			}
		}

		t.sample()
	}
}

// sample increments TIMA on a falling edge of the selected divider bit. A
// disabled timer holds the edge detector low, so disabling while the tap is
// high also counts as a falling edge.
func (t *Timer) sample() {
	tap := bit.IsSet(tacEnable, t.tac) && bit.IsSet16(timerTaps[t.tac&0x03], t.divider)
	if t.lastTap && !tap {
		t.increment()
	}
	t.lastTap = tap
}

func (t *Timer) increment() {
	t.tima++
	if t.tima == 0 {
		t.reload = reloadDelay
	}
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return bit.High(t.divider)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		t.divider = 0
		t.sample()
	case addr.TIMA:
		// a write during the reload delay cancels the reload
		t.tima = value
		t.reload = 0
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
		t.sample()
	}
}
