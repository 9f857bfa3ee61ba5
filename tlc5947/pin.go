package tlc5947

import (
	"periph.io/x/conn/v3/gpio"
)

// OutputPin is a digital output line. Either call may fail; the error is
// passed through as the cause of a PinError.
type OutputPin interface {
	SetHigh() error
	SetLow() error
}

// PinRole names the line a pin drives.
type PinRole uint8

const (
	Latch PinRole = iota
	Data
	OE
	Clock
)

func (r PinRole) String() string {
	switch r {
	case Latch:
		return "latch"
	case Data:
		return "data"
	case OE:
		return "oe"
	case Clock:
		return "clock"
	default:
		return "unknown"
	}
}

// PinError is returned by every device operation that touches a line. Which
// identifies the line that failed.
type PinError struct {
	Which   PinRole
	Message string
	Err     error
}

func (e *PinError) Error() string {
	msg := "tlc5947: " + e.Which.String() + " pin: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PinError) Unwrap() error { return e.Err }

// rolePin tags an OutputPin with the role it plays on the device.
type rolePin struct {
	raw  OutputPin
	role PinRole
}

func (p *rolePin) setHigh() error {
	if err := p.raw.SetHigh(); err != nil {
		return &PinError{Which: p.role, Message: "failed to set high", Err: err}
	}
	return nil
}

func (p *rolePin) setLow() error {
	if err := p.raw.SetLow(); err != nil {
		return &PinError{Which: p.role, Message: "failed to set low", Err: err}
	}
	return nil
}

func (p *rolePin) set(high bool) error {
	if high {
		return p.setHigh()
	}
	return p.setLow()
}

// PinOut adapts a periph GPIO output to an OutputPin.
func PinOut(p gpio.PinOut) OutputPin {
	return periphPin{p}
}

type periphPin struct {
	p gpio.PinOut
}

func (p periphPin) SetHigh() error { return p.p.Out(gpio.High) }
func (p periphPin) SetLow() error  { return p.p.Out(gpio.Low) }

func (p periphPin) String() string { return p.p.String() }
