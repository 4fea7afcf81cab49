package aw20216s

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// transfer runs w through the bus as one chip-select framed transaction.
//
// Without a CS pin the SPI driver frames every Tx call itself.
func (d *Dev) transfer(w, r []byte) error {
	if d.cs == nil {
		return d.c.Tx(w, r)
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	err := d.c.Tx(w, r)
	if errCS := d.cs.Out(gpio.High); err == nil {
		err = errCS
	}
	return err
}

// transferChunked sends frame as one transaction split in pieces of size
// bytes. The device sees exactly the same bytes as with transfer.
func (d *Dev) transferChunked(frame []byte, size int) error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			return err
		}
		var err error
		for i := 0; i < len(frame) && err == nil; i += size {
			err = d.c.Tx(frame[i:min(i+size, len(frame))], nil)
		}
		if errCS := d.cs.Out(gpio.High); err == nil {
			err = errCS
		}
		return err
	}

	pkts := make([]spi.Packet, 0, (len(frame)+size-1)/size)
	for i := 0; i < len(frame); i += size {
		end := min(i+size, len(frame))
		// CS stays asserted until the last packet.
		pkts = append(pkts, spi.Packet{W: frame[i:end], KeepCS: end < len(frame)})
	}
	return d.c.TxPackets(pkts)
}

// chunkSize returns how many bytes of an n byte frame can go in one transfer.
func (d *Dev) chunkSize(n int) int {
	if d.byteWise {
		return 1
	}
	if l, ok := d.c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 && m < n {
			return m
		}
	}
	return n
}

// selectPage records the page the device pointer was last left on.
//
// Every command byte carries the page, so nothing is skipped based on it.
func (d *Dev) selectPage(page byte) {
	if d.page != page {
		d.log.Debug().Uint8("from", d.page).Uint8("to", page).Msg("page switch")
		d.page = page
	}
}

// writeRegister writes value to register reg of page.
func (d *Dev) writeRegister(page, reg, value byte) error {
	w := [3]byte{command(page, false), reg, value}
	if err := d.transfer(w[:], nil); err != nil {
		d.page = pageUnknown
		return fmt.Errorf("aw20216s: write page %d register 0x%02X: %w", page, reg, err)
	}
	d.selectPage(page)
	return nil
}

// readRegister reads register reg of page.
//
// The value is clocked in while a dummy 0x00 is sent; the write and read
// buffers are distinct.
func (d *Dev) readRegister(page, reg byte) (byte, error) {
	w := [3]byte{command(page, true), reg, 0x00}
	var r [3]byte
	err := d.transfer(w[:], r[:])
	d.page = pageUnknown
	if err != nil {
		return 0, fmt.Errorf("aw20216s: read page %d register 0x%02X: %w", page, reg, err)
	}
	return r[2], nil
}

// WriteRegister writes value to register reg of page.
//
// It gives access to registers without a dedicated method, such as the
// Reg constants of page 0. Writes that change state mirrored by the driver
// (PWM page, pattern configuration) are not reflected in the mirrors.
func (d *Dev) WriteRegister(page, reg, value byte) error {
	if d.halted {
		return ErrHalted
	}
	if page >= numPages {
		return fmt.Errorf("aw20216s: invalid page %d", page)
	}
	return d.writeRegister(page, reg, value)
}

// ReadRegister reads register reg of page.
func (d *Dev) ReadRegister(page, reg byte) (byte, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if page >= numPages {
		return 0, fmt.Errorf("aw20216s: invalid page %d", page)
	}
	return d.readRegister(page, reg)
}

// writeBurst writes data to consecutive registers of page, starting at
// start, in a single transaction. The device auto-increments its address.
func (d *Dev) writeBurst(page, start byte, data []byte) error {
	if len(data) > numChannels {
		return errors.New("aw20216s: burst larger than a register page")
	}
	// The payload is copied so the caller's buffer is never handed to a
	// full-duplex transfer.
	frame := d.scratch[:2+len(data)]
	frame[0] = command(page, false)
	frame[1] = start
	copy(frame[2:], data)

	var err error
	if size := d.chunkSize(len(frame)); size < len(frame) {
		d.log.Debug().Uint8("page", page).Int("len", len(frame)).Int("chunk", size).Msg("chunked burst")
		err = d.transferChunked(frame, size)
	} else {
		err = d.transfer(frame, nil)
	}
	if err != nil {
		d.page = pageUnknown
		return fmt.Errorf("aw20216s: burst to page %d: %w", page, err)
	}
	d.selectPage(page)
	return nil
}
