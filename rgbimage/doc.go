// Package rgbimage provides an RGB image whose pixel memory matches the
// AW20216S PWM register page.
//
// The AW20216S drives 216 current sinks. With RGB LEDs wired three sinks per
// pixel, one row of the matrix occupies 18 consecutive registers (6 RGB
// columns) and the chip scans up to 12 rows.
//
// Memory layout for the pixel at (x, y):
//
//	base = y*18 + x*3
//	Pix[base+0] = red
//	Pix[base+1] = green
//	Pix[base+2] = blue
//
// Because Pix is laid out exactly like the chip's registers, a Matrix can be
// transferred to the device in a single burst without any repacking.
//
// This package provides:
//
// - RGB: an opaque 8-bit per channel color
// - Model: a color model converting standard Go colors to RGB
// - Matrix: a draw.Image implementation backed by the 216 byte register image
//
// Example usage:
//
//	// Create a 6x12 matrix
//	img := rgbimage.NewMatrix(image.Rect(0, 0, 6, 12))
//
//	// Set a pixel to orange
//	img.SetRGB(2, 3, rgbimage.RGB{R: 255, G: 128})
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package rgbimage
