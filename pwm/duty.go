package pwm

import "fmt"

// Duty is a PWM duty setting for one channel. It is always in [0, 4095]; the
// zero value is MinDuty.
type Duty struct {
	raw int16
}

// NewDuty clamps v into [0, 4095].
func NewDuty(v int) Duty {
	switch {
	case v > maxRaw:
		return MaxDuty()
	case v < 0:
		return MinDuty()
	default:
		return Duty{raw: int16(v)}
	}
}

// MinDuty is fully off.
func MinDuty() Duty { return Duty{raw: 0} }

// MaxDuty is fully on.
func MaxDuty() Duty { return Duty{raw: maxRaw} }

// DefaultDuty is off.
func DefaultDuty() Duty { return MinDuty() }

// DutyFromByte widens an 8-bit brightness to 12 bits. The byte is shifted up
// four bits and the low nibble is filled with the 16-wide band the byte falls
// in, so 0 stays 0 and 255 reaches 4095.
func DutyFromByte(b uint8) Duty {
	shifted := int16(b) << 4
	if b == 0 {
		return Duty{raw: shifted}
	}
	nibble := int16(b)/16 + 1
	if nibble > 0xf {
		nibble = 0xf
	}
	return Duty{raw: shifted | nibble}
}

// Value returns the 12-bit magnitude.
func (d Duty) Value() uint16 { return uint16(d.raw) }

// Bits returns the magnitude most significant bit first, the order the chip
// shifts it in.
func (d Duty) Bits() [Width]bool {
	var out [Width]bool
	for i, m := range bitMasks {
		out[i] = uint16(d.raw)&m != 0
	}
	return out
}

// Add steps d by s.
func (d Duty) Add(s Step) (Duty, error) {
	v := int(d.raw) + int(s.amount)
	switch {
	case v < 0:
		return Duty{}, Underflow
	case v > maxRaw:
		return Duty{}, Overflow
	default:
		return Duty{raw: int16(v)}, nil
	}
}

func (d Duty) String() string {
	return fmt.Sprintf("0x%03x", uint16(d.raw))
}

// Sequence returns the values after d up to and including MaxDuty.
func (d Duty) Sequence() *Sequence {
	return &Sequence{cur: d.raw, stride: 1}
}

// Sequence yields successive duty values one at a time. Once it passes
// MaxDuty it stays exhausted; start a new one from a fresh Duty to iterate
// again.
type Sequence struct {
	cur     int16
	stride  int
	started bool
	done    bool
}

// Next returns the following value, or false once the sequence is exhausted.
func (q *Sequence) Next() (Duty, bool) {
	n := 1
	if q.started {
		n = q.stride
	}
	q.started = true
	var d Duty
	for i := 0; i < n; i++ {
		var ok bool
		if d, ok = q.advance(); !ok {
			return Duty{}, false
		}
	}
	return d, true
}

func (q *Sequence) advance() (Duty, bool) {
	if q.done || q.cur >= maxRaw {
		q.done = true
		return Duty{}, false
	}
	q.cur++
	return Duty{raw: q.cur}, true
}

// StepBy makes the sequence yield its next value and then every n-th value
// after it. n below 1 is treated as 1.
func (q *Sequence) StepBy(n int) *Sequence {
	if n < 1 {
		n = 1
	}
	q.stride = n
	return q
}

// Last drains the sequence and returns the final value it yielded.
func (q *Sequence) Last() (Duty, bool) {
	var last Duty
	found := false
	for {
		d, ok := q.Next()
		if !ok {
			return last, found
		}
		last, found = d, true
	}
}
