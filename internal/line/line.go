// Package line opens the four output lines the TLC5947 needs, either through
// periph's pin registry or the Linux GPIO character device.
package line

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledpwm5947/tlc5947"
)

// Names are periph pin names, e.g. "GPIO17" or "P1_11".
type Names struct {
	Latch, Data, OE, Clock string
}

// Offsets are line offsets on one gpiochip.
type Offsets struct {
	Latch, Data, OE, Clock int
}

// Lines holds an opened set of lines in tlc5947.New order.
type Lines struct {
	Latch, Data, OE, Clock tlc5947.OutputPin

	closers []io.Closer
}

// Pins returns the lines in the order tlc5947.New takes them.
func (l *Lines) Pins() (latch, data, oe, clock tlc5947.OutputPin) {
	return l.Latch, l.Data, l.OE, l.Clock
}

// Close releases every line that was opened. It is safe to call more than
// once.
func (l *Lines) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

func (l *Lines) set(role tlc5947.PinRole, p tlc5947.OutputPin) {
	switch role {
	case tlc5947.Latch:
		l.Latch = p
	case tlc5947.Data:
		l.Data = p
	case tlc5947.OE:
		l.OE = p
	case tlc5947.Clock:
		l.Clock = p
	}
}

var roles = [...]tlc5947.PinRole{tlc5947.Latch, tlc5947.Data, tlc5947.OE, tlc5947.Clock}

func (n Names) of(role tlc5947.PinRole) string {
	return [...]string{n.Latch, n.Data, n.OE, n.Clock}[role]
}

func (o Offsets) of(role tlc5947.PinRole) int {
	return [...]int{o.Latch, o.Data, o.OE, o.Clock}[role]
}

var hostInit = func() error {
	_, err := host.Init()
	return err
}

// Periph initialises the host drivers and looks each name up in gpioreg.
// Every line is driven low once found.
func Periph(n Names) (*Lines, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("line: periph host init: %w", err)
	}
	l := &Lines{}
	for _, role := range roles {
		name := n.of(role)
		if name == "" {
			return nil, fmt.Errorf("line: no pin name for %s", role)
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("line: %s pin %q not found", role, name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("line: %s pin %q: %w", role, name, err)
		}
		l.set(role, tlc5947.PinOut(p))
	}
	return l, nil
}
