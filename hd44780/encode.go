// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

// Mode selects the register a byte is written to.
type Mode bool

const (
	ModeCommand Mode = false
	ModeData    Mode = true
)

func (m Mode) String() string {
	if m == ModeData {
		return "data"
	}
	return "command"
}

// Backlight is the mask ANDed into the control nibble of every byte sent to
// the backpack.
type Backlight byte

const (
	BacklightOn  Backlight = 0x0f // XXXX-1111
	BacklightOff Backlight = 0x07 // XXXX-0111
)

// Control nibbles, laid out as backlight-enable-rw-rs. RS selects the data
// register, enable latches the nibble on the falling edge and R/W is always
// write.
const (
	dataByteOn  byte = 0x0d // 1101
	dataByteOff byte = 0x09 // 1001
	cmdByteOn   byte = 0x0c // 1100
	cmdByteOff  byte = 0x08 // 1000

	// BacklightBit is the expander pin driving the backlight transistor.
	BacklightBit byte = 0x08
	// EnableBit is the expander pin wired to the LCD E line.
	EnableBit byte = 0x04
	// RegisterSelectBit is the expander pin wired to the LCD RS line.
	RegisterSelectBit byte = 0x01
)

// Frame is the 4 bytes written to the expander for one logical byte: the
// upper nibble with enable high then low, then the lower nibble the same way.
type Frame [4]byte

// Encode packs b into a Frame for 4-bit mode. The upper nibble is always sent
// first.
func Encode(b byte, mode Mode, bl Backlight) Frame {
	on, off := cmdByteOn, cmdByteOff
	if mode == ModeData {
		on, off = dataByteOn, dataByteOff
	}
	upper := b & 0xf0
	lower := (b << 4) & 0xf0
	return Frame{
		upper | (on & byte(bl)),
		upper | (off & byte(bl)),
		lower | (on & byte(bl)),
		lower | (off & byte(bl)),
	}
}

// Decode returns the logical byte and register carried by f. It does not
// check that f is well formed.
func (f Frame) Decode() (byte, Mode) {
	return (f[0] & 0xf0) | (f[2] >> 4), Mode(f[0]&RegisterSelectBit != 0)
}

// Backlit reports whether f drives the backlight on.
func (f Frame) Backlit() bool {
	return f[0]&BacklightBit != 0
}
