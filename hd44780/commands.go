// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"time"
)

// Line is a display row, 1 based.
type Line uint8

const (
	LineOne   Line = 1
	LineTwo   Line = 2
	LineThree Line = 3
	LineFour  Line = 4
)

// Direction is used by MoveCursor and Scroll.
type Direction uint8

const (
	MoveRight Direction = 1
	MoveLeft  Direction = 2
)

func (d Direction) String() string {
	switch d {
	case MoveRight:
		return "right"
	case MoveLeft:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// CursorType is a display control command with the display on bit set.
type CursorType byte

const (
	// CursorTypeOff hides the cursor.
	CursorTypeOff CursorType = 0x0c
	// CursorTypeBlink shows a blinking block.
	CursorTypeBlink CursorType = 0x0d
	// CursorTypeOn shows an underline.
	CursorTypeOn CursorType = 0x0e
	// CursorTypeOnBlink shows both the underline and the blinking block.
	CursorTypeOnBlink CursorType = 0x0f
)

func (c CursorType) valid() bool {
	return c >= CursorTypeOff && c <= CursorTypeOnBlink
}

func (c CursorType) String() string {
	switch c {
	case CursorTypeOff:
		return "off"
	case CursorTypeBlink:
		return "blink"
	case CursorTypeOn:
		return "underline"
	case CursorTypeOnBlink:
		return "underline+blink"
	}
	return fmt.Sprintf("CursorType(0x%02x)", byte(c))
}

// EntryMode is an entry mode set command. It decides which way the address
// counter moves after a data write and whether the display shifts with it.
type EntryMode byte

const (
	// EntryModeDecrement moves the cursor left, display fixed.
	EntryModeDecrement EntryMode = 0x04
	// EntryModeDecrementShift moves the cursor left and shifts the display.
	EntryModeDecrementShift EntryMode = 0x05
	// EntryModeIncrement moves the cursor right, display fixed. This is the
	// mode set by Init and ResetScreen.
	EntryModeIncrement EntryMode = 0x06
	// EntryModeIncrementShift moves the cursor right and shifts the display.
	EntryModeIncrementShift EntryMode = 0x07
)

func (m EntryMode) valid() bool {
	return m >= EntryModeDecrement && m <= EntryModeIncrementShift
}

// Glyph is a custom character: one byte per pixel row, the low 5 bits of each
// are the pixels.
type Glyph [8]byte

// Command bytes. See http://dinceraydin.com/lcd/commands.htm
const (
	cmdClearScreen    byte = 0x01
	cmdHome           byte = 0x02
	cmdFunctionSet4   byte = 0x28 // 4-bit interface, 2 lines, 5x7 font
	cmdDisplayOn      byte = 0x0c // display on, cursor hidden
	cmdDisplayOff     byte = 0x08 // blank without clearing
	cmdCursorLeft     byte = 0x10
	cmdCursorRight    byte = 0x14
	cmdScrollLeft     byte = 0x18
	cmdScrollRight    byte = 0x1e
	cmdCGRAM          byte = 0x40
	displayOnBit      byte = 0x04
	maxCustomCharSlot      = 8

	lineAddressOne    byte = 0x80
	lineAddressTwo    byte = 0xc0
	lineAddress3Col20 byte = 0x94
	lineAddress4Col20 byte = 0xd4
	// The 16 column row 3 and 4 addresses have not been verified on a real
	// 16x4 module.
	lineAddress3Col16 byte = 0x90
	lineAddress4Col16 byte = 0xd0

	// One DDRAM line holds 40 characters in 2 line mode.
	lineLength = 40
)

// Delays are datasheet minimums.
const (
	delayPowerOn     = 15 * time.Millisecond
	delayNegotiate   = 5 * time.Millisecond
	delayInitClear   = 5 * time.Millisecond
	delayClearCmd    = 3 * time.Millisecond
	delayHome        = 3 * time.Millisecond
	delayDisplay     = 5 * time.Millisecond
	delayResetScreen = 5 * time.Millisecond
)
