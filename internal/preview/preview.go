// Package preview shows a frame of duty values somewhere other than the
// board: the console, or an addressable LED strip on SPI.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

// DefaultStripKHz suits WS281x strips on a Raspberry Pi SPI port.
const DefaultStripKHz = 2500

// Image renders a frame as one row of RGB pixels, three channels each, the
// way tlc5947.Device.Draw reads them back. Values are cut to 8 bits.
func Image(frame [tlc5947.NumChannels]pwm.Duty) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, tlc5947.NumPixels, 1))
	for x := 0; x < tlc5947.NumPixels; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{
			R: to8(frame[3*x]),
			G: to8(frame[3*x+1]),
			B: to8(frame[3*x+2]),
			A: 255,
		})
	}
	return img
}

func to8(d pwm.Duty) uint8 {
	return uint8(d.Value() >> 4)
}

// Mirror draws every frame onto a set of drawers.
type Mirror struct {
	drawers []display.Drawer
}

func NewMirror(drawers ...display.Drawer) *Mirror {
	return &Mirror{drawers: drawers}
}

func (m *Mirror) Add(d display.Drawer) {
	m.drawers = append(m.drawers, d)
}

// Len is the number of drawers.
func (m *Mirror) Len() int { return len(m.drawers) }

// Show draws frame on every drawer, even after one fails.
func (m *Mirror) Show(frame [tlc5947.NumChannels]pwm.Duty) error {
	if len(m.drawers) == 0 {
		return nil
	}
	img := Image(frame)
	var errs []error
	for _, d := range m.drawers {
		if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
			errs = append(errs, fmt.Errorf("preview: %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

// Halt halts every drawer.
func (m *Mirror) Halt() error {
	var errs []error
	for _, d := range m.drawers {
		if err := d.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("preview: halt %s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

// Console prints each frame to the terminal as coloured blocks.
func Console() display.Drawer {
	return screen.New(tlc5947.NumPixels)
}

// Strip opens an SPI port ("" for the first one) and drives a WS281x strip
// of tlc5947.NumPixels pixels on it.
func Strip(port string, khz int) (display.Drawer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("preview: host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("preview: open spi %q: %w", port, err)
	}
	d, err := NewStrip(p, khz)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return d, nil
}

// NewStrip drives a WS281x strip on an open port. Halt closes the port.
func NewStrip(p spi.PortCloser, khz int) (display.Drawer, error) {
	if khz <= 0 {
		khz = DefaultStripKHz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: tlc5947.NumPixels,
		Channels:  3,
		Freq:      physic.Frequency(khz) * physic.KiloHertz,
	})
	if err != nil {
		return nil, fmt.Errorf("preview: nrzled: %w", err)
	}
	return &strip{Drawer: d, port: p}, nil
}

// strip closes its port on Halt.
type strip struct {
	display.Drawer
	port spi.PortCloser
}

func (s *strip) Halt() error {
	return errors.Join(s.Drawer.Halt(), s.port.Close())
}
