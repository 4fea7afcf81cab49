package aw20216s

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// fakeChip emulates the AW20216S register file. It implements both spi.Port
// and spi.Conn, and decodes the byte stream exactly like the chip: command,
// address, then data with address auto-increment until CS is released.
type fakeChip struct {
	regs [5][256]byte

	// Connect parameters
	freq physic.Frequency
	mode spi.Mode
	bits int

	maxTx int   // MaxTxSize, 0 for unlimited
	err   error // returned by the next transfers when set

	// Current transaction
	pos  int
	cmd  byte
	addr byte
	cur  []byte

	frames  [][]byte // completed transactions
	txCalls int      // Tx calls
	packets int      // TxPackets packets
	patgo   []byte   // start register writes, auto-cleared
	resets  int
}

func (c *fakeChip) String() string {
	return "fakechip"
}

func (c *fakeChip) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	c.freq, c.mode, c.bits = f, mode, bits
	return c, nil
}

func (c *fakeChip) Duplex() conn.Duplex {
	return conn.Full
}

func (c *fakeChip) MaxTxSize() int {
	return c.maxTx
}

func (c *fakeChip) Tx(w, r []byte) error {
	if c.err != nil {
		return c.err
	}
	c.txCalls++
	c.clock(w, r)
	if c.mode&spi.NoCS == 0 {
		c.release()
	}
	return nil
}

func (c *fakeChip) TxPackets(p []spi.Packet) error {
	if c.err != nil {
		return c.err
	}
	for _, pkt := range p {
		c.packets++
		c.clock(pkt.W, pkt.R)
		if !pkt.KeepCS {
			c.release()
		}
	}
	return nil
}

// clock shifts w in and r out, one byte at a time.
func (c *fakeChip) clock(w, r []byte) {
	for i, b := range w {
		var out byte
		switch c.pos {
		case 0:
			c.cmd = b
		case 1:
			c.addr = b
		default:
			if c.cmd&0xF0 == cmdChipID {
				page := (c.cmd >> 1) & 0x07
				reg := c.addr + byte(c.pos-2)
				if c.cmd&cmdRead != 0 {
					out = c.regs[page][reg]
				} else {
					c.store(page, reg, b)
				}
			}
		}
		if i < len(r) {
			r[i] = out
		}
		c.cur = append(c.cur, b)
		c.pos++
	}
}

// release ends the current transaction, as CS going high does.
func (c *fakeChip) release() {
	if c.pos > 0 {
		c.frames = append(c.frames, c.cur)
	}
	c.cur = nil
	c.pos = 0
}

func (c *fakeChip) store(page, reg, v byte) {
	switch {
	case page == PageFunction && reg == regRSTN && v == resetCommand:
		c.regs = [5][256]byte{}
		c.resets++
	case page == PageFunction && reg == regPATGO:
		c.patgo = append(c.patgo, v)
	default:
		c.regs[page][reg] = v
	}
}

// csPin releases the fake chip on its rising edge.
type csPin struct {
	gpiotest.Pin
	chip   *fakeChip
	levels []gpio.Level
}

func (p *csPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	if l == gpio.High {
		p.chip.release()
	}
	return p.Pin.Out(l)
}

// noSleep disables delays for the duration of the test and records them.
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = orig })
	return &slept
}

// newTestDev returns a device that went through Begin on a fake chip. The
// transactions of Begin are discarded.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *fakeChip) {
	t.Helper()
	noSleep(t)
	chip := &fakeChip{}
	d, err := NewSPI(chip, opts)
	require.NoError(t, err)
	chip.frames = nil
	chip.txCalls = 0
	return d, chip
}

var errBus = errors.New("bus stalled")
