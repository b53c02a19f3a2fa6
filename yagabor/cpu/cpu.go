package cpu

import (
	"fmt"
	"log/slog"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
)

// Bus is the memory the CPU fetches from and operates on.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// InterruptController is the interrupt state the CPU consults and dispatches.
type InterruptController interface {
	Pending() bool
	Requested(i addr.Interrupt) bool
	MasterEnabled() bool
	SetMasterEnabled(on bool)
	Acknowledge() (addr.Interrupt, bool)
}

const (
	// dispatchCycles is the cost of jumping to an interrupt handler.
	dispatchCycles = 20
	// idleCycles is what a halted or stopped CPU spends per step.
	idleCycles = 4
)

// DecodeError is returned when the fetched byte has no instruction.
type DecodeError struct {
	Opcode   uint8
	Extended bool
	PC       uint16
}

func (e *DecodeError) Error() string {
	if e.Extended {
		return fmt.Sprintf("illegal opcode 0xCB%02X at 0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

// UnimplementedError is returned when an instruction is decoded but has no
// handler.
type UnimplementedError struct {
	Opcode   uint8
	Extended bool
	Mnemonic string
}

func (e *UnimplementedError) Error() string {
	if e.Extended {
		return fmt.Sprintf("unimplemented opcode 0xCB%02X (%s)", e.Opcode, e.Mnemonic)
	}
	return fmt.Sprintf("unimplemented opcode 0x%02X (%s)", e.Opcode, e.Mnemonic)
}

// CPU is the DMG's SM83 core.
type CPU struct {
	Registers
	sp uint16
	pc uint16

	bus Bus
	irq InterruptController

	// imeDelay counts down the steps until EI takes effect.
	imeDelay int
	halted   bool
	stopped  bool
	// haltBug makes the next opcode fetch leave PC in place, so the byte
	// after HALT is read twice.
	haltBug bool

	cycles uint64
	trace  bool
}

// Option configures a CPU.
type Option func(*CPU)

// WithBootROM starts execution at 0x0000 with cleared registers, for running
// a boot image.
func WithBootROM() Option {
	return func(c *CPU) {
		c.Registers = Registers{}
		c.sp = 0
		c.pc = 0
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace() Option {
	return func(c *CPU) { c.trace = true }
}

// New returns a CPU in the state the boot ROM leaves it in.
func New(bus Bus, irq InterruptController, opts ...Option) *CPU {
	c := &CPU{
		bus: bus,
		irq: irq,
	}
	c.SetAF(0x01B0)
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step executes one instruction and returns the cycles it took. A halted CPU
// idles for 4 cycles until an interrupt is pending.
func (c *CPU) Step() (int, error) {
	if c.halted {
		if !c.irq.Pending() {
			c.cycles += idleCycles
			return idleCycles, nil
		}
		c.halted = false
	}

	if c.stopped {
		if !c.irq.Requested(addr.JoypadInterrupt) {
			c.cycles += idleCycles
			return idleCycles, nil
		}
		c.stopped = false
	}

	start := c.pc
	in, err := c.decode()
	if err != nil {
		c.pc = start
		return 0, err
	}

	if c.trace {
		slog.Debug("exec",
			"pc", fmt.Sprintf("0x%04X", start),
			"instr", in.Format(c.operands(start, in)),
			"af", fmt.Sprintf("0x%04X", c.AF()),
			"bc", fmt.Sprintf("0x%04X", c.BC()),
			"de", fmt.Sprintf("0x%04X", c.DE()),
			"hl", fmt.Sprintf("0x%04X", c.HL()),
			"sp", fmt.Sprintf("0x%04X", c.sp))
	}

	cycles := in.exec(c)
	c.cycles += uint64(cycles)

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.irq.SetMasterEnabled(true)
		}
	}

	return cycles, nil
}

// decode fetches the opcode at PC, and the second byte for 0xCB prefixed
// instructions, leaving PC on the first operand.
func (c *CPU) decode() (*Instruction, error) {
	pc := c.pc
	opcode := c.fetch()
	table, extended := &baseTable, false

	if opcode == prefixCB {
		opcode = c.fetch()
		table, extended = &extendedTable, true
	}

	in := table[opcode]
	if in == nil {
		return nil, &DecodeError{Opcode: opcode, Extended: extended, PC: pc}
	}
	if in.exec == nil {
		return nil, &UnimplementedError{Opcode: opcode, Extended: extended, Mnemonic: in.Mnemonic}
	}
	return in, nil
}

// ServiceInterrupts wakes a halted CPU when an interrupt is pending and, if
// IME is set, jumps to the highest priority handler. It returns the cycles
// spent, 0 when nothing was dispatched.
func (c *CPU) ServiceInterrupts() int {
	if !c.irq.Pending() {
		return 0
	}
	c.halted = false

	i, ok := c.irq.Acknowledge()
	if !ok {
		return 0
	}

	c.imeDelay = 0
	if c.haltBug {
		// Return to the HALT itself so it runs again after the handler.
		c.haltBug = false
		c.pc--
	}
	c.push(c.pc)
	c.pc = i.Vector()
	c.cycles += dispatchCycles
	return dispatchCycles
}

func (c *CPU) fetch() uint8 {
	value := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
		return value
	}
	c.pc++
	return value
}

// readImmediate returns the byte at PC ('n' in mnemonics) and moves past it.
func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

// readImmediateWord returns the little endian word at PC ('nn' in mnemonics)
// and moves past it.
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

// push writes the high byte at SP-1 and the low byte at SP-2.
func (c *CPU) push(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) pop() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// operands returns the operand bytes of the instruction that starts at pc.
func (c *CPU) operands(pc uint16, in *Instruction) []byte {
	skip := uint16(1)
	if in.Extended {
		skip = 2
	}
	ops := make([]byte, 0, 2)
	for i := skip; i < uint16(in.Length); i++ {
		ops = append(ops, c.bus.Read(pc+i))
	}
	return ops
}

func (c *CPU) PC() uint16       { return c.pc }
func (c *CPU) SP() uint16       { return c.sp }
func (c *CPU) SetPC(pc uint16)  { c.pc = pc }
func (c *CPU) SetSP(sp uint16)  { c.sp = sp }
func (c *CPU) Cycles() uint64   { return c.cycles }
func (c *CPU) Halted() bool     { return c.halted }
func (c *CPU) Stopped() bool    { return c.stopped }
func (c *CPU) IMEPending() bool { return c.imeDelay > 0 }
