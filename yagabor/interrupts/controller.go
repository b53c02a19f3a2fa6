// Package interrupts holds the interrupt enable/request registers and the
// master enable flag, and selects which interrupt to service next.
package interrupts

import (
	"fmt"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
)

// sourceMask covers the five interrupt bits.
const sourceMask uint8 = 0x1F

// Controller tracks IE, IF and IME.
type Controller struct {
	enable  uint8
	request uint8
	ime     bool
}

// New returns a controller with everything cleared.
func New() *Controller {
	return &Controller{}
}

// Request latches the request bit for the given interrupt.
func (c *Controller) Request(i addr.Interrupt) {
	if i >= addr.InterruptCount {
		panic(fmt.Sprintf("unknown interrupt: %d", i))
	}
	c.request = bit.Set(uint8(i), c.request)
}

// Requested reports whether the request bit for i is latched.
func (c *Controller) Requested(i addr.Interrupt) bool {
	return bit.IsSet(uint8(i), c.request)
}

// Pending reports whether any interrupt is both enabled and requested,
// regardless of IME. This is what wakes the CPU from HALT.
func (c *Controller) Pending() bool {
	return c.enable&c.request&sourceMask != 0
}

// MasterEnabled returns IME.
func (c *Controller) MasterEnabled() bool {
	return c.ime
}

// SetMasterEnabled sets IME.
func (c *Controller) SetMasterEnabled(on bool) {
	c.ime = on
}

// Acknowledge selects the highest priority interrupt that is enabled and
// requested, clears its request bit and IME, and returns it. Nothing is
// touched and ok is false when IME is clear or nothing is pending.
func (c *Controller) Acknowledge() (i addr.Interrupt, ok bool) {
	if !c.ime {
		return 0, false
	}

	fired := c.enable & c.request & sourceMask
	if fired == 0 {
		return 0, false
	}

	for i = addr.VBlankInterrupt; i < addr.InterruptCount; i++ {
		if bit.IsSet(uint8(i), fired) {
			break
		}
	}

	c.request = bit.Clear(uint8(i), c.request)
	c.ime = false
	return i, true
}

// Read returns IF or IE. The three unused upper bits of IF always read as 1.
func (c *Controller) Read(address uint16) byte {
	switch address {
	case addr.IF:
		return c.request | 0xE0
	case addr.IE:
		return c.enable
	default:
		return 0xFF
	}
}

// Write stores IF or IE.
func (c *Controller) Write(address uint16, value byte) {
	switch address {
	case addr.IF:
		c.request = value & sourceMask
	case addr.IE:
		c.enable = value
	}
}
