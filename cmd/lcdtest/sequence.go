// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/hd44780"
	"github.com/sirupsen/logrus"
)

// glyphs are the custom characters loaded by the sequence, by slot.
var glyphs = []struct {
	name string
	g    hd44780.Glyph
}{
	{"bell", hd44780.Glyph{0x04, 0x0e, 0x0e, 0x0e, 0x1f, 0x00, 0x04}},
	{"note", hd44780.Glyph{0x02, 0x03, 0x02, 0x0e, 0x1e, 0x0c, 0x00}},
	{"clock", hd44780.Glyph{0x00, 0x0e, 0x15, 0x17, 0x11, 0x0e, 0x00}},
	{"heart", hd44780.Glyph{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00}},
	{"duck", hd44780.Glyph{0x00, 0x0c, 0x1d, 0x0f, 0x0f, 0x06, 0x00}},
	{"check", hd44780.Glyph{0x00, 0x01, 0x03, 0x16, 0x1c, 0x08, 0x00}},
	{"cross", hd44780.Glyph{0x00, 0x1b, 0x0e, 0x04, 0x0e, 0x1b, 0x00}},
	{"enter", hd44780.Glyph{0x01, 0x01, 0x05, 0x09, 0x1f, 0x08, 0x04}},
}

func glyphByName(name string) (hd44780.Glyph, bool) {
	for _, g := range glyphs {
		if g.name == name {
			return g.g, true
		}
	}
	return hd44780.Glyph{}, false
}

// display is what the sequence needs from a session.
type display interface {
	Show() error
	Pause(ctx context.Context, d time.Duration) error
}

// runner walks the display through every feature of the driver.
type runner struct {
	lcd   *hd44780.HD44780
	disp  display
	pause time.Duration
	log   logrus.FieldLogger
}

type step struct {
	name string
	f    func(ctx context.Context) error
}

func (r *runner) steps() []step {
	return []step{
		{"hello", r.hello},
		{"cursor move", r.cursorMove},
		{"scroll", r.scroll},
		{"goto", r.gotoTest},
		{"clear line", r.clearLine},
		{"cursor types", r.cursorTypes},
		{"entry modes", r.entryModes},
		{"numbers", r.numbers},
		{"custom chars", r.customChars},
		{"backlight", r.backlight},
	}
}

func (r *runner) run(ctx context.Context) error {
	if err := r.lcd.ClearScreenCmd(); err != nil {
		return err
	}
	r.lcd.BacklightSet(true)
	for _, s := range r.steps() {
		r.log.WithField("step", s.name).Info("running")
		if err := s.f(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (r *runner) wait(ctx context.Context, n int) error {
	return r.disp.Pause(ctx, time.Duration(n)*r.pause)
}

func (r *runner) hello(ctx context.Context) error {
	if err := r.lcd.GoTo(hd44780.LineOne, 0); err != nil {
		return err
	}
	if err := r.lcd.SendString("Hello"); err != nil {
		return err
	}
	if err := r.lcd.GoTo(hd44780.LineTwo, 0); err != nil {
		return err
	}
	if err := r.lcd.SendString("World"); err != nil {
		return err
	}
	if err := r.lcd.SendChar('!'); err != nil {
		return err
	}
	return r.wait(ctx, 2)
}

func (r *runner) cursorMove(ctx context.Context) error {
	if err := r.lcd.ResetScreen(hd44780.CursorTypeOnBlink); err != nil {
		return err
	}
	if err := r.lcd.SendString("Move"); err != nil {
		return err
	}
	if err := r.lcd.MoveCursor(hd44780.MoveRight, 2); err != nil {
		return err
	}
	if err := r.wait(ctx, 1); err != nil {
		return err
	}
	if err := r.lcd.MoveCursor(hd44780.MoveLeft, 2); err != nil {
		return err
	}
	return r.wait(ctx, 1)
}

func (r *runner) scroll(ctx context.Context) error {
	if err := r.lcd.ResetScreen(hd44780.CursorTypeOff); err != nil {
		return err
	}
	if err := r.lcd.SendString("Scroll"); err != nil {
		return err
	}
	for range 5 {
		if err := r.lcd.Scroll(hd44780.MoveRight, 1); err != nil {
			return err
		}
		if err := r.disp.Pause(ctx, r.pause/4); err != nil {
			return err
		}
	}
	if err := r.lcd.Scroll(hd44780.MoveLeft, 5); err != nil {
		return err
	}
	return r.wait(ctx, 1)
}

func (r *runner) gotoTest(ctx context.Context) error {
	if err := r.lcd.ClearScreenCmd(); err != nil {
		return err
	}
	if err := r.lcd.GoTo(hd44780.LineOne, 10); err != nil {
		return err
	}
	if err := r.lcd.SendChar('A'); err != nil {
		return err
	}
	if err := r.lcd.GoTo(hd44780.LineTwo, 2); err != nil {
		return err
	}
	if err := r.lcd.SendString("Line 2"); err != nil {
		return err
	}
	return r.wait(ctx, 2)
}

func (r *runner) clearLine(ctx context.Context) error {
	for _, l := range []hd44780.Line{hd44780.LineTwo, hd44780.LineOne} {
		if err := r.lcd.ClearLine(l); err != nil {
			return err
		}
		if err := r.wait(ctx, 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) cursorTypes(ctx context.Context) error {
	types := []hd44780.CursorType{
		hd44780.CursorTypeOff, hd44780.CursorTypeBlink, hd44780.CursorTypeOn, hd44780.CursorTypeOnBlink,
	}
	for i, ct := range types {
		if err := r.lcd.ResetScreen(ct); err != nil {
			return err
		}
		if err := r.lcd.SendString(fmt.Sprintf("Cursor no %d", i)); err != nil {
			return err
		}
		if err := r.wait(ctx, 1); err != nil {
			return err
		}
	}
	return r.lcd.ResetScreen(hd44780.CursorTypeOff)
}

func (r *runner) entryModes(ctx context.Context) error {
	modes := []hd44780.EntryMode{
		hd44780.EntryModeDecrement, hd44780.EntryModeDecrementShift, hd44780.EntryModeIncrementShift,
	}
	for _, m := range modes {
		if err := r.lcd.ResetScreen(hd44780.CursorTypeOff); err != nil {
			return err
		}
		if err := r.lcd.ChangeEntryMode(m); err != nil {
			return err
		}
		if err := r.lcd.GoTo(hd44780.LineOne, 8); err != nil {
			return err
		}
		if err := r.lcd.SendString("1234"); err != nil {
			return err
		}
		if err := r.wait(ctx, 1); err != nil {
			return err
		}
	}
	if err := r.lcd.ChangeEntryMode(hd44780.EntryModeIncrement); err != nil {
		return err
	}
	return r.lcd.ResetScreen(hd44780.CursorTypeOff)
}

func (r *runner) numbers(ctx context.Context) error {
	p := hd44780.NewPrinter(r.lcd)
	if err := r.lcd.ClearScreenCmd(); err != nil {
		return err
	}
	if _, err := p.Println(193, -8582); err != nil {
		return err
	}
	if err := r.lcd.GoTo(hd44780.LineTwo, 0); err != nil {
		return err
	}
	if _, err := p.PrintFloat(3.1456, 3); err != nil {
		return err
	}
	if err := r.wait(ctx, 2); err != nil {
		return err
	}
	for _, b := range []hd44780.Base{hd44780.DEC, hd44780.OCT, hd44780.HEX, hd44780.BIN} {
		if err := r.lcd.ClearLine(hd44780.LineOne); err != nil {
			return err
		}
		if err := r.lcd.GoTo(hd44780.LineOne, 0); err != nil {
			return err
		}
		if _, err := p.PrintInt(11, b); err != nil {
			return err
		}
		if err := r.wait(ctx, 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) customChars(ctx context.Context) error {
	for i, g := range glyphs {
		if err := r.lcd.CreateCustomChar(uint8(i), g.g); err != nil {
			return err
		}
	}
	if err := r.lcd.ClearScreenCmd(); err != nil {
		return err
	}
	for i := range glyphs {
		if err := r.lcd.PrintCustomChar(uint8(i)); err != nil {
			return err
		}
		if err := r.lcd.SendChar(' '); err != nil {
			return err
		}
	}
	return r.wait(ctx, 3)
}

func (r *runner) backlight(ctx context.Context) error {
	r.lcd.BacklightSet(false)
	if err := r.lcd.GoTo(hd44780.LineTwo, 1); err != nil {
		return err
	}
	if err := r.lcd.SendString("Back Light"); err != nil {
		return err
	}
	if err := r.wait(ctx, 2); err != nil {
		return err
	}
	r.lcd.BacklightSet(true)
	if err := r.wait(ctx, 1); err != nil {
		return err
	}
	return r.lcd.ClearScreenCmd()
}
