// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 through a
// PCF8574 I2C backpack.
//
// The backpack wires the expander pins to the LCD as D7-D4, backlight,
// enable, R/W and RS, so the controller is always run in 4-bit mode. Every
// logical byte is sent as a 4 byte Frame: the upper nibble with enable pulsed,
// then the lower nibble the same way.
//
// The R/W line is never driven high, so the busy flag can't be read. Fixed
// delays from the datasheet are used after the slow commands instead.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/pcf857x"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidGeometry is returned when the configured rows or columns are
	// outside what the controller can address.
	ErrInvalidGeometry = errors.New("hd44780: invalid geometry")
	// ErrOutOfRange is returned when a position or argument is outside the
	// display.
	ErrOutOfRange = errors.New("hd44780: value out of range")
	// ErrTransfer is returned when a frame could not be delivered within the
	// retry policy.
	ErrTransfer = errors.New("hd44780: i2c transfer failed")
)

// Transport delivers frames to the backpack. It makes a single attempt per
// call. *pcf857x.Dev implements it.
type Transport interface {
	WriteFrame(frame [4]byte) error
}

// State is the progress of the initialization sequence.
type State uint8

const (
	Uninitialized State = iota
	// NibbleModeNegotiated means the controller was switched to 4-bit mode.
	NibbleModeNegotiated
	// Configured means function set, display control and cursor were sent.
	Configured
	// Ready means entry mode was set and the screen cleared.
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case NibbleModeNegotiated:
		return "NibbleModeNegotiated"
	case Configured:
		return "Configured"
	case Ready:
		return "Ready"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Opts holds the configuration of a display session.
type Opts struct {
	// Rows is the number of display lines, 1 to 4.
	Rows int
	// Cols is the number of characters per line. 20 selects the 20x4 DDRAM
	// layout for rows 3 and 4.
	Cols int
	// Address and Speed are used by the PCF857x backpack constructors. New
	// ignores them since the transport is already configured.
	Address uint16
	Speed   pcf857x.Speed
	// Cursor is applied by the initialization sequence.
	Cursor CursorType
	// Retry bounds how long a failing transfer is retried.
	Retry RetryPolicy
	// Debug enables diagnostics on Logger.
	Debug bool
	// Logger receives diagnostics. nil selects logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultOpts is a 16x2 display on a backpack at 0x27 with the bus at 100kHz.
var DefaultOpts = Opts{
	Rows:    2,
	Cols:    16,
	Address: pcf857x.DefaultAddress,
	Speed:   pcf857x.SpeedDefault,
	Cursor:  CursorTypeOff,
	Retry:   DefaultRetryPolicy,
}

// HD44780 is a display session on a 4-bit HD44780 behind an I2C backpack.
// It is not safe for concurrent use.
//
// Implements periph.io/conn/x/display/TextDisplay and display.DisplayBacklight
type HD44780 struct {
	t         Transport
	rows      int
	cols      int
	backlight Backlight
	cursor    CursorType
	entry     EntryMode
	on        bool
	debug     bool
	errors    int
	retry     RetryPolicy
	log       logrus.FieldLogger
	state     State

	sleep func(time.Duration)
	now   func() time.Time
}

// New returns a display on t in the Ready state.
//
// Rows must be 1 to 4 and Cols 1 to 40, anything else returns
// ErrInvalidGeometry without touching the bus.
func New(t Transport, opts *Opts) (*HD44780, error) {
	lcd, err := newHD44780(t, opts)
	if err != nil {
		return nil, err
	}
	ct := CursorTypeOff
	if opts != nil && opts.Cursor != 0 {
		ct = opts.Cursor
	}
	if err = lcd.Init(ct); err != nil {
		return nil, err
	}
	return lcd, nil
}

func newHD44780(t Transport, opts *Opts) (*HD44780, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrTransfer)
	}
	if err := checkGeometry(opts.Rows, opts.Cols); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	retry := opts.Retry
	if retry == (RetryPolicy{}) {
		retry = DefaultRetryPolicy
	}
	return &HD44780{
		t:         t,
		rows:      opts.Rows,
		cols:      opts.Cols,
		backlight: BacklightOn,
		cursor:    CursorTypeOff,
		entry:     EntryModeIncrement,
		debug:     opts.Debug,
		retry:     retry,
		log:       log,
		sleep:     time.Sleep,
		now:       time.Now,
	}, nil
}

// Init runs the power on sequence: switch the controller to 4-bit mode,
// configure two line mode, turn the display on with the cursor ct, select
// left to right entry and clear the screen.
//
// Operations issued before Init completes are undefined on the wire.
func (lcd *HD44780) Init(ct CursorType) error {
	if !ct.valid() {
		return fmt.Errorf("%w: cursor type 0x%02x", ErrOutOfRange, byte(ct))
	}
	lcd.state = Uninitialized
	lcd.sleep(delayPowerOn)
	// The first home frame carries nibbles 0x0 and 0x2. In 8-bit mode the
	// second one reads as function set 4-bit, the other two realign the
	// nibbles whatever mode the controller was left in.
	for range 3 {
		if err := lcd.sendCommand(cmdHome); err != nil {
			return err
		}
		lcd.sleep(delayNegotiate)
	}
	lcd.state = NibbleModeNegotiated
	for _, cmd := range []byte{cmdFunctionSet4, cmdDisplayOn, byte(ct)} {
		if err := lcd.sendCommand(cmd); err != nil {
			return err
		}
	}
	lcd.cursor = ct
	lcd.on = true
	lcd.state = Configured
	if err := lcd.sendCommand(byte(EntryModeIncrement)); err != nil {
		return err
	}
	lcd.entry = EntryModeIncrement
	if err := lcd.sendCommand(cmdClearScreen); err != nil {
		return err
	}
	lcd.sleep(delayInitClear)
	lcd.state = Ready
	if lcd.debug {
		lcd.log.WithField("cursor", ct).Debug("hd44780: initialized")
	}
	return nil
}

// State returns the progress of the last Init.
func (lcd *HD44780) State() State {
	return lcd.state
}

// ClearScreen blanks every line by writing spaces, leaving the cursor at the
// end of the last line.
func (lcd *HD44780) ClearScreen() error {
	if lcd.rows < 1 || lcd.rows > 4 {
		if lcd.debug {
			lcd.log.WithField("rows", lcd.rows).Error("hd44780: ClearScreen: invalid number of rows")
		}
		return fmt.Errorf("%w: %d rows", ErrInvalidGeometry, lcd.rows)
	}
	for l := LineOne; l <= Line(lcd.rows); l++ {
		if err := lcd.ClearLine(l); err != nil {
			return err
		}
	}
	return nil
}

// ClearLine blanks line l by writing spaces from its first column.
func (lcd *HD44780) ClearLine(l Line) error {
	if err := lcd.GoTo(l, 0); err != nil {
		return err
	}
	for range lcd.cols {
		if err := lcd.sendData(' '); err != nil {
			return err
		}
	}
	return nil
}

// ClearScreenCmd clears the display with the controller command and returns
// the cursor home.
func (lcd *HD44780) ClearScreenCmd() error {
	if err := lcd.sendCommand(cmdClearScreen); err != nil {
		return err
	}
	lcd.sleep(delayClearCmd)
	return nil
}

// Home moves the cursor to the first position and undoes any scroll.
func (lcd *HD44780) Home() error {
	if err := lcd.sendCommand(cmdHome); err != nil {
		return err
	}
	lcd.sleep(delayHome)
	return nil
}

// GoTo moves the cursor to line l, column col. col is 0 based.
func (lcd *HD44780) GoTo(l Line, col int) error {
	addr, err := lcd.address(l, col)
	if err != nil {
		return err
	}
	return lcd.sendCommand(addr)
}

// address returns the set DDRAM address command for l and col.
func (lcd *HD44780) address(l Line, col int) (byte, error) {
	if col < 0 || col >= lineLength {
		return 0, fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	c := byte(col)
	switch l {
	case LineOne:
		return lineAddressOne | c, nil
	case LineTwo:
		return lineAddressTwo | c, nil
	case LineThree:
		if lcd.cols == 20 {
			return lineAddress3Col20 + c, nil
		}
		return lineAddress3Col16 | c, nil
	case LineFour:
		if lcd.cols == 20 {
			return lineAddress4Col20 + c, nil
		}
		return lineAddress4Col16 | c, nil
	}
	return 0, fmt.Errorf("%w: line %d", ErrOutOfRange, l)
}

// SendChar writes a character code at the cursor.
func (lcd *HD44780) SendChar(c byte) error {
	return lcd.sendData(c)
}

// SendString writes the bytes of s at the cursor. No charset conversion is
// done, see ToROM.
func (lcd *HD44780) SendString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := lcd.sendData(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// MoveCursor moves the cursor n positions without changing DDRAM.
func (lcd *HD44780) MoveCursor(dir Direction, n int) error {
	return lcd.repeat(dir, n, cmdCursorRight, cmdCursorLeft)
}

// Scroll shifts the whole display n positions.
func (lcd *HD44780) Scroll(dir Direction, n int) error {
	return lcd.repeat(dir, n, cmdScrollRight, cmdScrollLeft)
}

func (lcd *HD44780) repeat(dir Direction, n int, right, left byte) error {
	var cmd byte
	switch dir {
	case MoveRight:
		cmd = right
	case MoveLeft:
		cmd = left
	default:
		return fmt.Errorf("%w: direction %s", ErrOutOfRange, dir)
	}
	for range n {
		if err := lcd.sendCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

// ResetScreen reconfigures the controller without the 4-bit negotiation,
// clears it and applies cursor type ct.
func (lcd *HD44780) ResetScreen(ct CursorType) error {
	if !ct.valid() {
		return fmt.Errorf("%w: cursor type 0x%02x", ErrOutOfRange, byte(ct))
	}
	for _, cmd := range []byte{cmdFunctionSet4, cmdDisplayOn, byte(ct), cmdClearScreen, byte(EntryModeIncrement)} {
		if err := lcd.sendCommand(cmd); err != nil {
			return err
		}
	}
	lcd.cursor = ct
	lcd.on = true
	lcd.entry = EntryModeIncrement
	lcd.sleep(delayResetScreen)
	return nil
}

// ChangeEntryMode sets the cursor direction and display shift after writes.
func (lcd *HD44780) ChangeEntryMode(m EntryMode) error {
	if !m.valid() {
		return fmt.Errorf("%w: entry mode 0x%02x", ErrOutOfRange, byte(m))
	}
	if err := lcd.sendCommand(byte(m)); err != nil {
		return err
	}
	lcd.entry = m
	return nil
}

// CreateCustomChar stores g in CGRAM slot 0 to 7. Slots 8 and above are
// ignored.
//
// The address counter is left in CGRAM. Call GoTo or Home before writing
// text again.
func (lcd *HD44780) CreateCustomChar(slot uint8, g Glyph) error {
	if slot >= maxCustomCharSlot {
		return nil
	}
	if err := lcd.sendCommand(cmdCGRAM | slot<<3); err != nil {
		return err
	}
	for _, row := range g {
		if err := lcd.sendData(row); err != nil {
			return err
		}
	}
	return nil
}

// PrintCustomChar writes the glyph in CGRAM slot 0 to 7 at the cursor. Slots 8
// and above are ignored.
func (lcd *HD44780) PrintCustomChar(slot uint8) error {
	if slot >= maxCustomCharSlot {
		return nil
	}
	return lcd.sendData(slot)
}

// BacklightSet changes the backlight mask. Nothing is sent; the change shows
// with the next frame.
func (lcd *HD44780) BacklightSet(on bool) {
	if on {
		lcd.backlight = BacklightOn
	} else {
		lcd.backlight = BacklightOff
	}
}

// BacklightGet reports the backlight mask state.
func (lcd *HD44780) BacklightGet() bool {
	return lcd.backlight == BacklightOn
}

// DisplayOn turns the display on or off. DDRAM is kept. Turning the display on
// hides the cursor.
func (lcd *HD44780) DisplayOn(on bool) error {
	cmd := cmdDisplayOff
	if on {
		cmd = cmdDisplayOn
	}
	if err := lcd.sendCommand(cmd); err != nil {
		return err
	}
	lcd.on = on
	if on {
		lcd.cursor = CursorTypeOff
	}
	lcd.sleep(delayDisplay)
	return nil
}

// SetDebug enables or disables diagnostics.
func (lcd *HD44780) SetDebug(on bool) {
	lcd.debug = on
}

// Debug reports whether diagnostics are enabled.
func (lcd *HD44780) Debug() bool {
	return lcd.debug
}

// Errors returns the number of failed transfers since the session started.
func (lcd *HD44780) Errors() int {
	return lcd.errors
}

// WriteByte writes one character code at the cursor. It makes HD44780 a
// ByteSink.
func (lcd *HD44780) WriteByte(c byte) error {
	return lcd.sendData(c)
}

func (lcd *HD44780) sendCommand(cmd byte) error {
	return lcd.send(cmd, ModeCommand)
}

func (lcd *HD44780) sendData(b byte) error {
	return lcd.send(b, ModeData)
}

func (lcd *HD44780) send(b byte, mode Mode) error {
	return lcd.transmit(Encode(b, mode, lcd.backlight))
}
