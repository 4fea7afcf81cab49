package aw20216s

import (
	"github.com/flavioheleno/aw20216s/rgbimage"
)

// WriteMode defines when pixel updates are sent to the device.
type WriteMode int

const (
	// Buffered keeps SetPixel, Fill and Clear in the framebuffer; Show sends
	// the whole frame in one burst.
	Buffered WriteMode = iota
	// Immediate sends every SetPixel as three register writes, and Fill and
	// Clear as a full frame burst. Show is never required.
	Immediate
)

func (m WriteMode) String() string {
	switch m {
	case Buffered:
		return "Buffered"
	case Immediate:
		return "Immediate"
	default:
		return "WriteMode(?)"
	}
}

// Mode returns the write discipline selected at construction.
func (d *Dev) Mode() WriteMode {
	return d.mode
}

// Clear sets every channel of the framebuffer to 0.
func (d *Dev) Clear() error {
	if d.mode == Immediate && d.halted {
		return ErrHalted
	}
	d.fb.Clear()
	return d.flushImmediate()
}

// Fill sets every pixel of the framebuffer to (r, g, b).
//
// All 72 channel triplets are filled, including the ones beyond the
// configured geometry.
func (d *Dev) Fill(r, g, b byte) error {
	if d.mode == Immediate && d.halted {
		return ErrHalted
	}
	d.fb.Fill(rgbimage.RGB{R: r, G: g, B: b})
	return d.flushImmediate()
}

// flushImmediate shows the framebuffer when running in Immediate mode.
func (d *Dev) flushImmediate() error {
	if d.mode != Immediate {
		return nil
	}
	return d.Show()
}

// SetPixel sets the color of the pixel at (x, y).
//
// Coordinates outside the configured rows and columns are ignored. In
// Buffered mode the change becomes visible on the next Show.
func (d *Dev) SetPixel(x, y int, r, g, b byte) error {
	if !d.in(x, y) {
		return nil
	}
	if d.mode == Immediate && d.halted {
		return ErrHalted
	}
	d.fb.SetRGB(x, y, rgbimage.RGB{R: r, G: g, B: b})
	if d.mode != Immediate {
		return nil
	}

	base := d.fb.PixOffset(x, y)
	for i, v := range [3]byte{r, g, b} {
		if err := d.writeRegister(PagePWM, byte(base+i), v); err != nil {
			d.shownValid = false
			return err
		}
		d.shown[base+i] = v
	}
	return nil
}

// Pixel returns the framebuffer color of the pixel at (x, y). It is black
// outside the configured geometry.
func (d *Dev) Pixel(x, y int) (r, g, b byte) {
	c := d.fb.RGBAt(x, y)
	return c.R, c.G, c.B
}

// in reports whether (x, y) is within the configured geometry.
func (d *Dev) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < d.rect.Dx() && y < d.rect.Dy()
}

// Show sends the whole framebuffer to the PWM page in a single burst.
func (d *Dev) Show() error {
	if d.halted {
		return ErrHalted
	}
	if err := d.writeBurst(PagePWM, 0, d.fb.Pix); err != nil {
		d.shownValid = false
		return err
	}
	copy(d.shown, d.fb.Pix)
	d.shownValid = true
	return nil
}

// SetScaling sets the current scaling of every red, green and blue channel.
//
// Scaling acts as a per-color current trim for white balance, independent of
// the PWM brightness. It is written in one burst and not kept locally.
func (d *Dev) SetScaling(r, g, b byte) error {
	if d.halted {
		return ErrHalted
	}
	var sl [numChannels]byte
	for i := 0; i < numChannels; i += 3 {
		sl[i] = r
		sl[i+1] = g
		sl[i+2] = b
	}
	return d.writeBurst(PageScaling, 0, sl[:])
}
