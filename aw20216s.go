// Package aw20216s controls an AW20216S LED matrix driver via SPI.
//
// The AW20216S drives 216 PWM current sinks, usually wired as up to 12 rows
// of 6 RGB pixels. Registers are split in pages selected by the command byte
// of every SPI transaction.
//
// See the examples for how to use this package.
package aw20216s

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/aw20216s/rgbimage"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	// DefaultFreq is the SPI clock used when Opts.Freq is zero.
	DefaultFreq = 4 * physic.MegaHertz
	// MaxFreq is the fastest SPI clock the chip accepts.
	MaxFreq = 10 * physic.MegaHertz

	powerUpDelay = 20 * time.Millisecond
	resetDelay   = 2 * time.Millisecond // OTP load time after soft reset
)

var (
	// ErrHalted is returned by operations on a halted device.
	ErrHalted = errors.New("aw20216s: halted")
	// ErrNotDetected is returned by NewSPI when the device does not read back
	// its configuration.
	ErrNotDetected = errors.New("aw20216s: device not detected")
)

// sleep is replaced in tests.
var sleep = time.Sleep

// Opts is the configuration for the AW20216S.
type Opts struct {
	// Matrix geometry in RGB pixels
	Rows int // Active rows (default: 12, must be 1-12)
	Cols int // RGB columns (default: 6, must be 1-6)

	// Mode selects when pixel writes reach the device (default: Buffered).
	Mode WriteMode

	// Freq is the SPI clock (default: DefaultFreq, capped at MaxFreq).
	Freq physic.Frequency

	// CS is an optional chip select pin driven by the driver. When nil the
	// SPI port's own chip select frames each transaction.
	CS gpio.PinOut

	// ByteWise sends burst payloads one byte per SPI packet instead of a
	// single bulk transfer.
	ByteWise bool

	// Logger receives debug events (optional).
	Logger *zerolog.Logger
}

// validate checks the geometry.
func (o *Opts) validate() error {
	if o.Rows <= 0 || o.Rows > rgbimage.MaxRows {
		return errors.New("aw20216s: rows must be between 1 and 12")
	}
	if o.Cols <= 0 || o.Cols > rgbimage.MaxCols {
		return errors.New("aw20216s: cols must be between 1 and 6")
	}
	if o.Mode != Buffered && o.Mode != Immediate {
		return errors.New("aw20216s: unknown write mode")
	}
	return nil
}

// Dev is the device handle for the AW20216S.
//
// Dev is not safe for concurrent use. Callers sharing a device must serialize
// every method call, since interleaved transactions corrupt the device's
// address pointer.
type Dev struct {
	// Communication
	c        spi.Conn
	cs       gpio.PinOut // Chip select (optional)
	byteWise bool
	scratch  []byte // Burst frame: command, address, payload
	page     byte   // Last addressed page, pageUnknown when not known
	log      zerolog.Logger

	// Matrix geometry
	rect image.Rectangle
	mode WriteMode

	// Pixel buffers
	fb         *rgbimage.Matrix // PWM page mirror
	shown      []byte           // Last frame flushed to the device
	shownValid bool

	// Breathing pattern generators
	patterns [numPatterns]patternSlot

	// State
	halted bool
}

// NewSPI creates a new AW20216S device connected via SPI and runs Begin.
//
// The SPI port is configured for Mode0 (CPOL=0, CPHA=0), MSB first, 8-bit
// transfers. When opts.CS is set the port is connected with spi.NoCS and the
// pin frames every transaction.
//
// opts can be nil to use defaults (12x6 matrix, buffered writes).
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{Rows: 12, Cols: 6}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	f := opts.Freq
	if f <= 0 {
		f = DefaultFreq
	}
	if f > MaxFreq {
		f = MaxFreq
	}
	mode := spi.Mode0
	if opts.CS != nil {
		mode |= spi.NoCS
	}
	c, err := p.Connect(f, mode, 8)
	if err != nil {
		return nil, fmt.Errorf("aw20216s: %w", err)
	}

	d := newDev(c, opts)
	ok, err := d.Begin()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotDetected
	}
	return d, nil
}

// newDev builds the handle without touching the bus.
func newDev(c spi.Conn, opts *Opts) *Dev {
	l := zerolog.Nop()
	if opts.Logger != nil {
		l = opts.Logger.With().Str("dev", "aw20216s").Logger()
	}
	rect := image.Rect(0, 0, opts.Cols, opts.Rows)
	return &Dev{
		c:        c,
		cs:       opts.CS,
		byteWise: opts.ByteWise,
		scratch:  make([]byte, 2+numChannels),
		page:     pageUnknown,
		log:      l,
		rect:     rect,
		mode:     opts.Mode,
		fb:       rgbimage.NewMatrix(rect),
		shown:    make([]byte, numChannels),
	}
}

// Begin brings the chip up: soft reset, chip enable with the configured
// number of rows, global current at half scale.
//
// It returns false when the global control register does not read back the
// value just written, meaning the device is absent, unpowered or selected
// through the wrong chip select. The framebuffer is left untouched.
func (d *Dev) Begin() (bool, error) {
	if d.cs != nil {
		if err := d.cs.Out(gpio.High); err != nil {
			return false, fmt.Errorf("aw20216s: failed to release CS: %w", err)
		}
	}
	sleep(powerUpDelay)

	if err := d.Reset(); err != nil {
		return false, err
	}
	d.halted = false

	gcr := d.gcr() | gcrChipEn
	if err := d.writeRegister(PageFunction, regGCR, gcr); err != nil {
		return false, err
	}
	if err := d.SetGlobalCurrent(defaultGCCR); err != nil {
		return false, err
	}

	v, err := d.readRegister(PageFunction, regGCR)
	if err != nil {
		return false, err
	}
	ok := v == gcr
	d.log.Debug().Bool("detected", ok).Uint8("gcr", v).Msg("begin")
	return ok, nil
}

// gcr returns the SWSEL field selecting the active rows.
func (d *Dev) gcr() byte {
	return byte(d.rect.Dy()-1) << 4
}

// Reset issues a soft reset and waits for the chip to reload its defaults.
//
// All registers return to their power-on values, so the cached page, the
// last flushed frame and the breathing pattern mirrors are discarded.
func (d *Dev) Reset() error {
	if err := d.writeRegister(PageFunction, regRSTN, resetCommand); err != nil {
		return err
	}
	sleep(resetDelay)

	d.page = pageUnknown
	d.shownValid = false
	for i := range d.patterns {
		d.patterns[i] = patternSlot{}
	}
	d.log.Debug().Msg("reset")
	return nil
}

// SetGlobalCurrent sets the master current applied to every channel (0-255).
func (d *Dev) SetGlobalCurrent(current byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.writeRegister(PageFunction, regGCCR, current)
}

// PWMFrequency selects the PWM base frequency (PCCR bits 7:5).
type PWMFrequency byte

// Nominal PWM frequencies.
const (
	PWMFreq62k5 PWMFrequency = iota // 62.5kHz
	PWMFreq31k3                     // 31.25kHz
	PWMFreq15k6                     // 15.6kHz
	PWMFreq7k8                      // 7.8kHz
	PWMFreq3k9                      // 3.9kHz
	PWMFreq1k95                     // 1.95kHz
	PWMFreq977                      // 977Hz
	PWMFreq488                      // 488Hz
)

// PhaseDelay selects the PWM phase delay mode (PCCR bits 1:0).
type PhaseDelay byte

// Phase delay modes.
const (
	PhaseDelayOff PhaseDelay = iota
	PhaseDelay1
	PhaseDelay2
	PhaseDelay3
)

// SetPWMClock writes the raw PWM clock register. Reserved bits 4:2 are
// forced to 0.
func (d *Dev) SetPWMClock(pccr byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.writeRegister(PageFunction, regPCCR, pccr&^pccrReserved)
}

// SetPWMFrequency sets the PWM base frequency and phase delay.
func (d *Dev) SetPWMFrequency(freq PWMFrequency, phase PhaseDelay) error {
	return d.SetPWMClock(byte(freq&0x07)<<5 | byte(phase&0x03))
}

// ColorModel returns the color model of the matrix.
func (d *Dev) ColorModel() color.Model {
	return rgbimage.Model
}

// Bounds returns the matrix bounds (columns x rows).
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw renders src into the framebuffer and shows it.
//
// The burst is skipped when the result is identical to the last frame sent
// to the device.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}

	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.fb, dst, src, sp, draw.Src)

	if d.shownValid && bytes.Equal(d.shown, d.fb.Pix) {
		return nil
	}
	return d.Show()
}

// Write replaces the whole PWM page with pixels and shows it.
// The data must be exactly 216 bytes in register order.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != numChannels {
		return 0, errors.New("aw20216s: invalid buffer size")
	}
	copy(d.fb.Pix, pixels)
	if err := d.Show(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt disables the chip, turning every LED off.
// After calling Halt, the device does not accept further commands until
// Begin is called again.
func (d *Dev) Halt() error {
	d.halted = true
	return d.writeRegister(PageFunction, regGCR, d.gcr())
}

var _ display.Drawer = (*Dev)(nil)

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("aw20216s.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
