// Package pwm holds the 12-bit duty values sent to the TLC5947 and the signed
// steps used to move them.
//
// New duty values and steps are clamped into range and never fail. Arithmetic
// on them does fail, with Underflow or Overflow, so control loops that step a
// value up or down can tell when the limit has been reached instead of
// spinning on a clamped value.
package pwm

import "strconv"

const (
	// Mask covers the 12 bits carried by a Duty.
	Mask = 0x0fff

	// Width is the number of bits of a Duty on the wire.
	Width = 12

	maxRaw  = Mask
	minStep = -Mask
	maxStep = Mask
)

// RangeError reports a Duty or Step result outside its valid range.
type RangeError uint8

const (
	// Underflow means the result fell below the floor.
	Underflow RangeError = iota + 1
	// Overflow means the result went past the ceiling.
	Overflow
)

func (e RangeError) Error() string {
	switch e {
	case Underflow:
		return "pwm: underflow"
	case Overflow:
		return "pwm: overflow"
	default:
		return "pwm: range error " + strconv.Itoa(int(e))
	}
}

// bitMasks are ordered most significant first.
var bitMasks = [Width]uint16{
	0x0800, 0x0400, 0x0200, 0x0100, 0x0080, 0x0040,
	0x0020, 0x0010, 0x0008, 0x0004, 0x0002, 0x0001,
}
