//go:build linux

package line

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/coreman2200/ledpwm5947/tlc5947"
)

const consumer = "ledpwm5947"

// Cdev requests the four offsets on chip (e.g. "gpiochip0") as outputs,
// initially low.
func Cdev(chip string, o Offsets) (*Lines, error) {
	l := &Lines{}
	for _, role := range roles {
		off := o.of(role)
		ln, err := gpiocdev.RequestLine(chip, off,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer(consumer+"-"+role.String()))
		if err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("line: request %s offset %d on %s: %w", role, off, chip, err)
		}
		l.closers = append(l.closers, ln)
		l.set(role, cdevLine{ln})
	}
	return l, nil
}

type cdevLine struct {
	l *gpiocdev.Line
}

func (c cdevLine) SetHigh() error { return c.l.SetValue(1) }
func (c cdevLine) SetLow() error  { return c.l.SetValue(0) }

var _ tlc5947.OutputPin = cdevLine{}
