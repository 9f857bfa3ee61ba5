package tlc5947

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/ledpwm5947/pwm"
)

// NumPixels is the number of RGB LEDs the board drives when wired as common
// anode RGB: pixel x uses three consecutive channels for red, green and blue.
const NumPixels = NumChannels / 3

// ColorModel implements display.Drawer.
func (d *Device) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer. The board is a single row of pixels.
func (d *Device) Bounds() image.Rectangle {
	return image.Rect(0, 0, NumPixels, 1)
}

// Draw implements display.Drawer. Each 8-bit component is widened with
// pwm.DutyFromByte, then the whole buffer is flushed.
func (d *Device) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	r := dstRect.Intersect(d.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		at := image.Pt(sp.X+x-dstRect.Min.X, sp.Y+r.Min.Y-dstRect.Min.Y)
		c := color.NRGBAModel.Convert(src.At(at.X, at.Y)).(color.NRGBA)
		d.WritePixel(x, c)
	}
	return d.Flush()
}

// WritePixel stores c for pixel x without flushing. Out of range pixels are
// ignored.
func (d *Device) WritePixel(x int, c color.NRGBA) {
	if x < 0 || x >= NumPixels {
		return
	}
	all := Channels()
	d.Write(all[3*x], pwm.DutyFromByte(c.R))
	d.Write(all[3*x+1], pwm.DutyFromByte(c.G))
	d.Write(all[3*x+2], pwm.DutyFromByte(c.B))
}

// Halt implements conn.Resource by turning every channel off.
func (d *Device) Halt() error {
	return d.AllBlack()
}

var _ display.Drawer = &Device{}
