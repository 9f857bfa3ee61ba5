// Package sim models a TLC5947 on the far side of four output lines, so the
// driver can run and be checked without hardware.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

// RegisterBits is the length of the chip's shift register.
const RegisterBits = tlc5947.NumChannels * pwm.Width

// ErrInjected is the cause reported by a line set up with FailOn.
var ErrInjected = errors.New("sim: injected line failure")

// Op is one call made on a line.
type Op struct {
	Role tlc5947.PinRole
	High bool
}

func (o Op) String() string {
	lvl := "low"
	if o.High {
		lvl = "high"
	}
	return fmt.Sprintf("%s=%s", o.Role, lvl)
}

// Chip is a simulated board. Data is sampled on each rising clock edge and
// the register is copied to the outputs on each rising latch edge.
type Chip struct {
	mu sync.Mutex

	levels   [4]bool
	register [RegisterBits]bool
	outputs  [tlc5947.NumChannels]uint16
	pulses   int
	latches  int
	ops      []Op
	record   bool

	counts [4]int
	failAt [4]int
}

// New returns a chip with every line low and every output off.
func New() *Chip {
	c := &Chip{}
	for i := range c.failAt {
		c.failAt[i] = -1
	}
	return c
}

// Record turns the op log on or off. It is off by default since a single
// flush makes close to 900 calls.
func (c *Chip) Record(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = on
	c.ops = nil
}

// FailOn makes the line for role fail from its n-th call onward, counting
// from zero. A negative n clears the failure.
func (c *Chip) FailOn(role tlc5947.PinRole, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAt[role] = n
	c.counts[role] = 0
}

// Line returns the OutputPin for role.
func (c *Chip) Line(role tlc5947.PinRole) tlc5947.OutputPin {
	return &line{chip: c, role: role}
}

// Lines returns the four lines in the order tlc5947.New takes them.
func (c *Chip) Lines() (latch, data, oe, clock tlc5947.OutputPin) {
	return c.Line(tlc5947.Latch), c.Line(tlc5947.Data), c.Line(tlc5947.OE), c.Line(tlc5947.Clock)
}

// Outputs returns the latched 12-bit value of every channel.
func (c *Chip) Outputs() [tlc5947.NumChannels]uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputs
}

// Pulses counts rising clock edges since New.
func (c *Chip) Pulses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulses
}

// Latches counts rising latch edges since New.
func (c *Chip) Latches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latches
}

// Enabled reports whether OE is low, which enables the outputs.
func (c *Chip) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.levels[tlc5947.OE]
}

// Level returns the current level of the line for role.
func (c *Chip) Level(role tlc5947.PinRole) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[role]
}

// Ops returns the calls logged since Record(true).
func (c *Chip) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

func (c *Chip) set(role tlc5947.PinRole, high bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.counts[role]
	c.counts[role]++
	if f := c.failAt[role]; f >= 0 && n >= f {
		return ErrInjected
	}
	if c.record {
		c.ops = append(c.ops, Op{Role: role, High: high})
	}

	rising := high && !c.levels[role]
	c.levels[role] = high
	if !rising {
		return nil
	}
	switch role {
	case tlc5947.Clock:
		c.shift(c.levels[tlc5947.Data])
	case tlc5947.Latch:
		c.latch()
	}
	return nil
}

// shift pushes bit in at the tail; bits past the head fall off as they would
// into a chained board.
func (c *Chip) shift(bit bool) {
	copy(c.register[:], c.register[1:])
	c.register[RegisterBits-1] = bit
	c.pulses++
}

// latch decodes the register. The first bit shifted in is the most
// significant bit of the last channel.
func (c *Chip) latch() {
	var out [tlc5947.NumChannels]uint16
	for k, bit := range c.register {
		if !bit {
			continue
		}
		ch := tlc5947.NumChannels - 1 - k/pwm.Width
		out[ch] |= 1 << (pwm.Width - 1 - k%pwm.Width)
	}
	c.outputs = out
	c.latches++
}

type line struct {
	chip *Chip
	role tlc5947.PinRole
}

func (l *line) SetHigh() error { return l.chip.set(l.role, true) }
func (l *line) SetLow() error  { return l.chip.set(l.role, false) }

func (l *line) String() string { return "sim:" + l.role.String() }
