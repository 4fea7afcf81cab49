// Package rgbimage provides an RGB image laid out like the AW20216S PWM page.
//
// Each pixel uses three consecutive bytes (R, G, B) and every row starts at a
// multiple of Stride, independently of the image width.
package rgbimage

import (
	"image"
	"image/color"
)

const (
	// Size is the number of channel bytes in a Matrix (one per current sink).
	Size = 216
	// Stride is the number of bytes between two rows.
	Stride = 18
	// MaxCols is the widest supported matrix in pixels.
	MaxCols = Stride / 3
	// MaxRows is the tallest supported matrix in pixels.
	MaxRows = Size / Stride
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xFFFF
}

// toRGB converts any color.Color to RGB.
//
// Transparent colors are composed over black, since an unlit LED is black.
func toRGB(c color.Color) color.Color {
	if v, ok := c.(RGB); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Model converts colors to RGB.
var Model = color.ModelFunc(toRGB)

// Matrix is an RGB image stored in AW20216S register order.
type Matrix struct {
	Pix  []byte          // Channel data, always Size bytes
	Rect image.Rectangle // Image bounds
}

// NewMatrix creates a new Matrix with the specified bounds.
// The bounds must fit in MaxCols x MaxRows.
func NewMatrix(r image.Rectangle) *Matrix {
	w, h := r.Dx(), r.Dy()
	if w > MaxCols || h > MaxRows {
		panic("rgbimage: bounds exceed 6x12 pixels")
	}
	return &Matrix{
		Pix:  make([]byte, Size),
		Rect: r,
	}
}

// ColorModel returns the color model of the image.
func (p *Matrix) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Matrix) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Matrix) At(x, y int) color.Color {
	return p.RGBAt(x, y)
}

// RGBAt returns the RGB color of the pixel at (x, y).
func (p *Matrix) RGBAt(x, y int) RGB {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return RGB{}
	}
	i := p.PixOffset(x, y)
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

// Set sets the color of the pixel at (x, y).
func (p *Matrix) Set(x, y int, c color.Color) {
	p.SetRGB(x, y, Model.Convert(c).(RGB))
}

// SetRGB sets the RGB color of the pixel at (x, y).
// Coordinates outside the bounds are ignored.
func (p *Matrix) SetRGB(x, y int, c RGB) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = c.R
	p.Pix[i+1] = c.G
	p.Pix[i+2] = c.B
}

// Fill sets all 72 channel triplets to c, including the ones outside the
// bounds, so that unused sinks carry the same value as the visible pixels.
func (p *Matrix) Fill(c RGB) {
	for i := 0; i+2 < len(p.Pix); i += 3 {
		p.Pix[i] = c.R
		p.Pix[i+1] = c.G
		p.Pix[i+2] = c.B
	}
}

// Clear sets every channel byte to zero, including the ones outside the
// bounds.
func (p *Matrix) Clear() {
	clear(p.Pix)
}

// PixOffset returns the index of the red channel of the pixel at (x, y).
func (p *Matrix) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*Stride + (x-p.Rect.Min.X)*3
}
