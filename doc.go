// Package aw20216s controls an AW20216S LED matrix driver via SPI.
//
// The AW20216S is a 216-channel constant current LED driver with 8-bit PWM per
// channel, 8-bit current scaling per channel and three autonomous breathing
// pattern generators. This driver implements the display.Drawer interface
// from periph.io for a matrix of RGB pixels.
//
// # Chip Characteristics
//
// - 216 current sinks: 12 scan lines (SW) x 18 current sources (CS)
// - 6 RGB pixels per row, up to 12 rows
// - 8-bit PWM and 8-bit current scaling per channel
// - 8-bit global current
// - 3 breathing pattern generators with programmable timing and range
// - SPI up to 10MHz, Mode0, MSB first
//
// # Register Pages
//
// Every transaction starts with a command byte 1010PPPW: the fixed chip ID,
// the page (0-4) and the read flag. The second byte is the register address;
// following bytes are written to consecutive registers.
//
//	Page 0  function registers (control, global current, patterns)
//	Page 1  PWM, one register per channel (0x00-0xD7)
//	Page 2  scaling, one register per channel (0x00-0xD7)
//	Page 3  pattern selection, 2 bits per channel, 3 channels per register
//	Page 4  PWM and scaling interleaved
//
// # Hardware Connection
//
//	Chip Pin → System Pin
//	GND      → GND
//	VDD      → 3.3V or 5V
//	SCK      → SPI Clock (SCLK)
//	SDI      → SPI Data (MOSI)
//	SDO      → SPI Data (MISO), required for Begin to detect the chip
//	CS       → SPI Chip Select, or any GPIO passed as Opts.CS
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/aw20216s"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		p, err := spireg.Open("")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer p.Close()
//
//		dev, err := aw20216s.NewSPI(p, &aw20216s.Opts{Rows: 12, Cols: 6})
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.Halt()
//
//		dev.SetPixel(0, 0, 255, 0, 0)
//		dev.SetPixel(1, 1, 0, 255, 0)
//		dev.Show()
//	}
//
// # Write Modes
//
// The mode is fixed when the device is created.
//
// ## Buffered (default)
//
// SetPixel, Fill and Clear only change the framebuffer. Show sends all 216
// channels in a single burst transaction. This is the fastest way to update
// several pixels.
//
// ## Immediate
//
// SetPixel writes the three PWM registers of the pixel right away, costing
// three transactions per pixel. Fill and Clear send the full frame. Show is
// never required.
//
// # Breathing Patterns
//
// Channels can be handed over to one of three hardware generators that
// oscillate their brightness without host involvement:
//
//	dev.SetBreathingBrightness(aw20216s.Pattern0, 0, 255)
//	dev.ConfigureBreathing(aw20216s.Pattern0, 0x44, 0x44, 0x44, 0x44, true)
//	dev.SetPixelPattern(0, 0, aw20216s.Pattern0, aw20216s.PWM, aw20216s.PWM)
//	dev.StartBreathing(aw20216s.Pattern0)
//
// The driver keeps one copy of each pattern configuration register, so
// EnableBreathing and ConfigureBreathing never clobber each other's bits.
//
// # Raw Registers
//
// Registers without a dedicated method, such as de-ghosting or slew rate
// control, are reached with WriteRegister and ReadRegister:
//
//	dev.WriteRegister(aw20216s.PageFunction, aw20216s.RegSRCR, 0x01)
//
// # Concurrency
//
// A Dev must not be used from several goroutines without external locking.
// A transaction (command, address, payload) is the unit of atomicity; two
// interleaved transactions corrupt the chip's address pointer.
//
// # Datasheet
//
// Register addresses and bit fields follow the Awinic AW20216S datasheet,
// register list of pages 0 to 4.
package aw20216s
