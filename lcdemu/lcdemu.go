// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdemu emulates an HD44780 character LCD behind a PCF8574 I2C
// backpack.
//
// Bus implements i2c.Bus. Every byte written to the backpack address is
// latched onto the emulated expander pins and a falling edge of the enable
// pin clocks D7-D4 and RS into the controller, exactly like the hardware. The
// controller powers up in 8-bit mode, keeps DDRAM, CGRAM, the address counter,
// the entry mode, display control and display shift, and executes every
// instruction of the datasheet except reads.
//
// It can be used to run a driver without hardware, to check what a display
// would show in tests, and to render the display on a terminal or in a PNG.
package lcdemu

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Expander pin layout of the backpack.
const (
	pinRS        byte = 0x01
	pinRW        byte = 0x02
	pinEnable    byte = 0x04
	pinBacklight byte = 0x08

	lineLength = 40
	cgramSize  = 64
)

var (
	// ErrInjected is returned by Tx after FailNext.
	ErrInjected = errors.New("lcdemu: injected transfer failure")
	// ErrNoAck is returned for transfers to another address.
	ErrNoAck = errors.New("lcdemu: no device at address")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("lcdemu: bus closed")
)

// Opts configures the emulated module.
type Opts struct {
	Rows int
	Cols int
	// Address is the backpack address. 0 selects 0x27.
	Address uint16
}

// DefaultOpts is a 16x2 module at 0x27.
var DefaultOpts = Opts{Rows: 2, Cols: 16, Address: 0x27}

// Bus is an I2C bus with one emulated LCD backpack on it.
type Bus struct {
	mu   sync.Mutex
	rows int
	cols int
	addr uint16

	pins     byte
	fourBit  bool
	twoLine  bool
	high     byte
	haveHigh bool

	ddram     [2][lineLength]byte
	cgram     [cgramSize]byte
	ac        int
	inCGRAM   bool
	increment bool
	autoShift bool
	displayOn bool
	cursorOn  bool
	blinkOn   bool
	shift     int

	speed    physic.Frequency
	failNext int
	writes   int
	closed   bool
}

// New returns a powered on module. Like real hardware the controller starts
// in 8-bit mode with the display off and random DDRAM, modelled as spaces.
func New(opts *Opts) *Bus {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Address
	if addr == 0 {
		addr = DefaultOpts.Address
	}
	b := &Bus{rows: opts.Rows, cols: opts.Cols, addr: addr, pins: 0xff, increment: true}
	b.clearDDRAM()
	return b
}

func (b *Bus) String() string {
	return fmt.Sprintf("lcdemu(%dx%d@%#x)", b.cols, b.rows, b.addr)
}

// Tx implements i2c.Bus. Reads return the latched pin state.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.failNext > 0 {
		b.failNext--
		return ErrInjected
	}
	if addr != b.addr {
		return fmt.Errorf("%w %#x", ErrNoAck, addr)
	}
	b.writes++
	for _, v := range w {
		b.latch(v)
	}
	for i := range r {
		r[i] = b.pins
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.speed = f
	return nil
}

// Close implements i2c.BusCloser. Further transfers fail.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// FailNext makes the next n transfers fail with ErrInjected without reaching
// the controller.
func (b *Bus) FailNext(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = n
}

// Speed returns the last bus clock set.
func (b *Bus) Speed() physic.Frequency {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speed
}

// Writes returns the number of successful transfers.
func (b *Bus) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Backlight reports the backlight pin.
func (b *Bus) Backlight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pins&pinBacklight != 0
}

// DisplayOn reports the display control D bit.
func (b *Bus) DisplayOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.displayOn
}

// Cursor reports the underline and blink bits of display control.
func (b *Bus) Cursor() (underline, blink bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorOn, b.blinkOn
}

// FourBit reports whether the controller was switched to 4-bit mode.
func (b *Bus) FourBit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fourBit
}

// EntryMode returns the entry mode set instruction in effect.
func (b *Bus) EntryMode() byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := byte(0x04)
	if b.increment {
		m |= 0x02
	}
	if b.autoShift {
		m |= 0x01
	}
	return m
}

// Address returns the address counter as a DDRAM or CGRAM address.
func (b *Bus) Address() (addr byte, cgram bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return byte(b.ac), b.inCGRAM
}

// Shift returns the number of positions the display is shifted left.
func (b *Bus) Shift() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shift
}

// Glyph returns the 8 pixel rows of CGRAM slot 0 to 7.
func (b *Bus) Glyph(slot int) [8]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var g [8]byte
	copy(g[:], b.cgram[(slot&7)*8:])
	return g
}

// Codes returns the character codes visible on each row, after display
// shift.
func (b *Bus) Codes() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes()
}

func (b *Bus) codes() [][]byte {
	out := make([][]byte, b.rows)
	for r := range out {
		line := b.ddram[r%2]
		offset := (r / 2) * b.cols
		row := make([]byte, b.cols)
		for c := range row {
			row[c] = line[mod(offset+c+b.shift, lineLength)]
		}
		out[r] = row
	}
	return out
}

// Lines returns the visible text of each row. Character codes are mapped to
// their ROM glyphs; custom characters show as the CGRAM slot digit in a
// circle.
func (b *Bus) Lines() []string {
	codes := b.Codes()
	out := make([]string, len(codes))
	for i, row := range codes {
		var s strings.Builder
		for _, c := range row {
			s.WriteRune(Rune(c))
		}
		out[i] = s.String()
	}
	return out
}

// latch sets the expander pins to v. The controller reads the bus on the
// falling edge of enable.
func (b *Bus) latch(v byte) {
	prev := b.pins
	b.pins = v
	if prev&pinEnable != 0 && v&pinEnable == 0 && v&pinRW == 0 {
		b.clock(v>>4, v&pinRS != 0)
	}
}

func (b *Bus) clock(nibble byte, rs bool) {
	if !b.fourBit {
		// D3-D0 are not wired and read as 0.
		b.execute(nibble<<4, rs)
		return
	}
	if !b.haveHigh {
		b.high = nibble
		b.haveHigh = true
		return
	}
	b.haveHigh = false
	b.execute(b.high<<4|nibble, rs)
}

func (b *Bus) execute(v byte, rs bool) {
	if rs {
		b.writeRAM(v)
		return
	}
	switch {
	case v&0x80 != 0:
		b.inCGRAM = false
		b.ac = int(v & 0x7f)
	case v&0x40 != 0:
		b.inCGRAM = true
		b.ac = int(v & 0x3f)
	case v&0x20 != 0:
		b.fourBit = v&0x10 == 0
		b.twoLine = v&0x08 != 0
	case v&0x10 != 0:
		right := v&0x04 != 0
		if v&0x08 != 0 {
			if right {
				b.shift--
			} else {
				b.shift++
			}
			b.shift = mod(b.shift, lineLength)
		} else {
			b.step(right)
		}
	case v&0x08 != 0:
		b.displayOn = v&0x04 != 0
		b.cursorOn = v&0x02 != 0
		b.blinkOn = v&0x01 != 0
	case v&0x04 != 0:
		b.increment = v&0x02 != 0
		b.autoShift = v&0x01 != 0
	case v&0x02 != 0:
		b.inCGRAM = false
		b.ac = 0
		b.shift = 0
	case v&0x01 != 0:
		b.clearDDRAM()
		b.inCGRAM = false
		b.ac = 0
		b.shift = 0
		b.increment = true
	}
}

func (b *Bus) writeRAM(v byte) {
	if b.inCGRAM {
		b.cgram[b.ac&(cgramSize-1)] = v & 0x1f
		if b.increment {
			b.ac = (b.ac + 1) & (cgramSize - 1)
		} else {
			b.ac = (b.ac - 1) & (cgramSize - 1)
		}
		return
	}
	line, col := b.split(b.ac)
	b.ddram[line][col] = v
	b.step(b.increment)
	if b.autoShift {
		if b.increment {
			b.shift++
		} else {
			b.shift--
		}
		b.shift = mod(b.shift, lineLength)
	}
}

// step moves the DDRAM address counter by one, wrapping from the end of the
// first line to the start of the second and back.
func (b *Bus) step(forward bool) {
	if b.inCGRAM {
		return
	}
	line, col := b.split(b.ac)
	if forward {
		col++
	} else {
		col--
	}
	if b.twoLine {
		switch {
		case col >= lineLength:
			col, line = 0, 1-line
		case col < 0:
			col, line = lineLength-1, 1-line
		}
	} else {
		col = mod(col, lineLength)
	}
	b.ac = line*0x40 + col
}

// split returns the DDRAM line and column of address a. Addresses past the
// end of a line fold back into it.
func (b *Bus) split(a int) (int, int) {
	if !b.twoLine {
		return 0, mod(a, lineLength)
	}
	line := 0
	if a >= 0x40 {
		line = 1
	}
	return line, mod(a-line*0x40, lineLength)
}

func (b *Bus) clearDDRAM() {
	for l := range b.ddram {
		for c := range b.ddram[l] {
			b.ddram[l][c] = ' '
		}
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

var _ i2c.BusCloser = &Bus{}
