// Package tlc5947 drives the TLC5947 24 channel, 12-bit PWM LED controller
// (Adafruit 1429) by bit-banging four output lines.
//
// # Protocol
//
// The board is a 288 bit shift register. Each flush shifts all 24 channels,
// last channel first and each value most significant bit first, sampling the
// data line on the rising clock edge. A latch pulse then copies the register
// to the outputs in one go.
//
// # Datasheet
//
// https://www.ti.com/product/TLC5947
package tlc5947

import (
	"github.com/coreman2200/ledpwm5947/pwm"
)

const devName = "TLC5947"

// Device is one board. It owns its four lines and a buffer of one duty per
// channel. Device is not safe for concurrent use.
type Device struct {
	buffer [NumChannels]pwm.Duty

	latch rolePin
	data  rolePin
	oe    rolePin
	clock rolePin
}

// New takes ownership of the four lines. The buffer starts with every
// channel off; nothing is driven until Begin or Flush.
func New(latch, data, oe, clock OutputPin) *Device {
	return &Device{
		latch: rolePin{raw: latch, role: Latch},
		data:  rolePin{raw: data, role: Data},
		oe:    rolePin{raw: oe, role: OE},
		clock: rolePin{raw: clock, role: Clock},
	}
}

// Begin drives OE, latch, data and clock low, in that order, and clears the
// buffer. On the first failing line it returns without touching the rest.
func (d *Device) Begin() error {
	for _, p := range []*rolePin{&d.oe, &d.latch, &d.data, &d.clock} {
		if err := p.setLow(); err != nil {
			return err
		}
	}
	d.clear()
	return nil
}

// Write stores v for ch. It reaches the outputs on the next Flush.
func (d *Device) Write(ch Channel, v pwm.Duty) {
	d.buffer[ch.idx] = v
}

// AllBlack clears the buffer and flushes it.
func (d *Device) AllBlack() error {
	d.clear()
	return d.Flush()
}

// Flush shifts the buffer out and latches it.
//
// A failing line aborts the transfer. The buffer is kept, but the chip's
// register holds a partial frame until a later Flush succeeds.
func (d *Device) Flush() error {
	if err := d.latch.setLow(); err != nil {
		return err
	}
	for i := NumChannels - 1; i >= 0; i-- {
		for _, bit := range d.buffer[i].Bits() {
			if err := d.clock.setLow(); err != nil {
				return err
			}
			if err := d.data.set(bit); err != nil {
				return err
			}
			if err := d.clock.setHigh(); err != nil {
				return err
			}
		}
	}
	if err := d.clock.setLow(); err != nil {
		return err
	}
	if err := d.latch.setHigh(); err != nil {
		return err
	}
	return d.latch.setLow()
}

func (d *Device) clear() {
	for i := range d.buffer {
		d.buffer[i] = pwm.MinDuty()
	}
}

func (d *Device) String() string {
	return devName
}
