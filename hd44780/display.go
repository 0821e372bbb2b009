// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
)

// AutoScroll shifts the display left as characters are written when enabled.
func (lcd *HD44780) AutoScroll(enabled bool) error {
	if enabled {
		return lcd.ChangeEntryMode(EntryModeIncrementShift)
	}
	return lcd.ChangeEntryMode(EntryModeIncrement)
}

// Clears the screen and moves the cursor to the first position.
func (lcd *HD44780) Clear() error {
	return lcd.ClearScreenCmd()
}

// Return the number of columns the display supports
func (lcd *HD44780) Cols() int {
	return lcd.cols
}

// Set the cursor mode. You can pass multiple arguments.
// Cursor(CursorOff, CursorUnderline)
func (lcd *HD44780) Cursor(modes ...display.CursorMode) error {
	ct := CursorTypeOff
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			ct = CursorTypeOff
		case display.CursorUnderline:
			ct |= CursorTypeOn
		case display.CursorBlock, display.CursorBlink:
			ct |= CursorTypeBlink
		default:
			return fmt.Errorf("%w: cursor mode %d", ErrOutOfRange, mode)
		}
	}
	cmd := byte(ct)
	if !lcd.on {
		cmd &^= displayOnBit
	}
	if err := lcd.sendCommand(cmd); err != nil {
		return err
	}
	lcd.cursor = ct
	return nil
}

// Return the min column position.
func (lcd *HD44780) MinCol() int {
	return 1
}

// Return the min row position.
func (lcd *HD44780) MinRow() int {
	return 1
}

// Move the cursor forward or backward.
func (lcd *HD44780) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Backward:
		return lcd.MoveCursor(MoveLeft, 1)
	case display.Forward:
		return lcd.MoveCursor(MoveRight, 1)
	case display.Down, display.Up:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
	return fmt.Errorf("%w: direction %d", ErrOutOfRange, dir)
}

// Move the cursor to arbitrary position. row and col are 1 based.
func (lcd *HD44780) MoveTo(row, col int) error {
	if row < lcd.MinRow() || row > lcd.rows || col < lcd.MinCol() || col > lcd.cols {
		return fmt.Errorf("%w: MoveTo(%d,%d)", ErrOutOfRange, row, col)
	}
	return lcd.GoTo(Line(row), col-1)
}

// Return the number of rows the display supports.
func (lcd *HD44780) Rows() int {
	return lcd.rows
}

// Return info about the display.
func (lcd *HD44780) String() string {
	return fmt.Sprintf("HD44780::%v - Rows: %d, Cols: %d", lcd.t, lcd.rows, lcd.cols)
}

// Turn the display on / off. The cursor mode is kept.
func (lcd *HD44780) Display(on bool) error {
	cmd := byte(lcd.cursor)
	if !on {
		cmd &^= displayOnBit
	}
	if err := lcd.sendCommand(cmd); err != nil {
		return err
	}
	lcd.on = on
	return nil
}

// Write a set of bytes to the display.
func (lcd *HD44780) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err = lcd.sendData(b); err != nil {
			return
		}
		n++
	}
	return
}

// Write a string output to the display.
func (lcd *HD44780) WriteString(text string) (int, error) {
	return lcd.Write([]byte(text))
}

// Halt turns the display off and releases the transport if it can be closed.
// DDRAM is not cleared.
func (lcd *HD44780) Halt() error {
	err := lcd.DisplayOn(false)
	if c, ok := lcd.t.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ display.TextDisplay = &HD44780{}
var _ conn.Resource = &HD44780{}
var _ io.Writer = &HD44780{}
