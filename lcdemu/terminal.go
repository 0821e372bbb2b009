// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdemu

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

var (
	// Colors of a yellow-green STN module.
	backlitColor = color.NRGBA{0x9c, 0xc4, 0x1c, 0xff}
	darkColor    = color.NRGBA{0x30, 0x38, 0x10, 0xff}
	bezelColor   = color.NRGBA{0x10, 0x10, 0x10, 0xff}
)

// TerminalOpts represents the options available for Terminal.
type TerminalOpts struct {
	// W is where the frames go. nil selects stdout.
	W       io.Writer
	Palette *ansi256.Palette

	_ struct{}
}

// Terminal draws the emulated display on a console using ANSI color codes.
type Terminal struct {
	b       *Bus
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
	drawn   int
}

// NewTerminal returns a Terminal showing b.
func NewTerminal(b *Bus, opts *TerminalOpts) *Terminal {
	if opts == nil {
		opts = &TerminalOpts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Terminal{b: b, w: w, palette: *p}
}

func (t *Terminal) String() string {
	return "Terminal(" + t.b.String() + ")"
}

// Refresh redraws the display in place. The frame is a bezel around one line
// of text per row, with the background following the backlight.
func (t *Terminal) Refresh() error {
	lines := t.b.Lines()
	bg := darkColor
	if t.b.Backlight() {
		bg = backlitColor
	}
	on := t.b.DisplayOn()
	// This code is designed to minimize the amount of memory allocated per call.
	t.buf.Reset()
	for range t.drawn {
		_, _ = t.buf.WriteString("\033[A")
	}
	for _, line := range lines {
		_, _ = t.buf.WriteString("\r\033[0m")
		_, _ = io.WriteString(&t.buf, t.palette.Block(bezelColor))
		_, _ = io.WriteString(&t.buf, t.palette.Block(bg))
		_, _ = t.buf.WriteString("\033[30m")
		for _, r := range line {
			if !on {
				r = ' '
			}
			_, _ = t.buf.WriteRune(r)
		}
		_, _ = io.WriteString(&t.buf, t.palette.Block(bg))
		_, _ = io.WriteString(&t.buf, t.palette.Block(bezelColor))
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	t.drawn = len(lines)
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\033[0m"))
	return err
}
