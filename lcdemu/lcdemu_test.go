// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdemu

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

const addr = 0x27

// frame packs b the way a PCF8574 backpack driver sends it, backlight on.
func frame(b byte, data bool) []byte {
	ctl := byte(0x0c)
	if data {
		ctl = 0x0d
	}
	hi, lo := b&0xf0, b<<4
	return []byte{hi | ctl, hi | ctl&^pinEnable, lo | ctl, lo | ctl&^pinEnable}
}

func send(t *testing.T, b *Bus, data bool, v ...byte) {
	t.Helper()
	for _, c := range v {
		if err := b.Tx(addr, frame(c, data), nil); err != nil {
			t.Fatal(err)
		}
	}
}

// initBus runs the 4-bit initialization.
func initBus(t *testing.T, rows, cols int) *Bus {
	t.Helper()
	b := New(&Opts{Rows: rows, Cols: cols})
	send(t, b, false, 0x02, 0x02, 0x02, 0x28, 0x0c, 0x0c, 0x06, 0x01)
	return b
}

func TestPowerOn(t *testing.T) {
	b := New(nil)
	if b.FourBit() {
		t.Fatal("powered up in 4-bit mode")
	}
	if b.DisplayOn() {
		t.Fatal("display on at power up")
	}
	send(t, b, false, 0x02)
	if !b.FourBit() {
		t.Fatal("first home frame did not select 4-bit mode")
	}
	send(t, b, false, 0x28, 0x0f)
	if !b.DisplayOn() {
		t.Error("display off")
	}
	if u, bl := b.Cursor(); !u || !bl {
		t.Errorf("Cursor() = %t, %t", u, bl)
	}
	if s := b.String(); s != "lcdemu(16x2@0x27)" {
		t.Errorf("String() = %q", s)
	}
}

func TestWrite(t *testing.T) {
	b := initBus(t, 2, 16)
	send(t, b, false, 0x80)
	send(t, b, true, []byte("Hello")...)
	send(t, b, false, 0xc0|11)
	send(t, b, true, []byte("World")...)
	want := []string{"Hello           ", "           World"}
	if diff := cmp.Diff(want, b.Lines()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if a, cg := b.Address(); a != 0x40+16 || cg {
		t.Errorf("Address() = %#x, %t", a, cg)
	}
	send(t, b, false, 0x01)
	if diff := cmp.Diff([]string{strings.Repeat(" ", 16), strings.Repeat(" ", 16)}, b.Lines()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLineWrap(t *testing.T) {
	b := initBus(t, 4, 20)
	send(t, b, false, 0x80|39)
	send(t, b, true, 'a', 'b')
	if a, _ := b.Address(); a != 0x41 {
		t.Errorf("Address() = %#x, want 0x41", a)
	}
	send(t, b, false, 0xd4+19)
	send(t, b, true, 'c')
	if a, _ := b.Address(); a != 0 {
		t.Errorf("Address() = %#x, want 0x00", a)
	}
	codes := b.Codes()
	if codes[1][0] != 'b' || codes[3][19] != 'c' {
		t.Errorf("Lines() = %q", b.Lines())
	}
}

func TestShift(t *testing.T) {
	b := initBus(t, 2, 16)
	send(t, b, true, []byte("0123456789")...)
	send(t, b, false, 0x18, 0x18)
	if l := b.Lines()[0]; !strings.HasPrefix(l, "23456789") {
		t.Errorf("line 1 = %q", l)
	}
	send(t, b, false, 0x1e, 0x1e, 0x1e)
	if s := b.Shift(); s != 39 {
		t.Errorf("Shift() = %d", s)
	}
	send(t, b, false, 0x02)
	if s := b.Shift(); s != 0 {
		t.Errorf("Shift() = %d", s)
	}
	send(t, b, false, 0x07)
	send(t, b, true, 'x')
	if s := b.Shift(); s != 1 {
		t.Errorf("auto shift: Shift() = %d", s)
	}
	if m := b.EntryMode(); m != 0x07 {
		t.Errorf("EntryMode() = %#x", m)
	}
}

func TestCursorMove(t *testing.T) {
	b := initBus(t, 2, 16)
	send(t, b, false, 0x14, 0x14, 0x10)
	if a, _ := b.Address(); a != 1 {
		t.Errorf("Address() = %#x", a)
	}
	send(t, b, false, 0x10, 0x10)
	if a, _ := b.Address(); a != 0x67 {
		t.Errorf("Address() = %#x, want wrap to 0x67", a)
	}
}

func TestCGRAM(t *testing.T) {
	b := initBus(t, 2, 16)
	g := [8]byte{0x1f, 0x00, 0x1f, 0x00, 0x1f, 0x00, 0x1f, 0xff}
	send(t, b, false, 0x40|5<<3)
	send(t, b, true, g[:]...)
	if a, cg := b.Address(); !cg || a != 48 {
		t.Errorf("Address() = %d, %t", a, cg)
	}
	want := g
	want[7] = 0x1f
	if got := b.Glyph(5); got != want {
		t.Errorf("Glyph(5) = % x", got)
	}
	send(t, b, false, 0x80)
	send(t, b, true, 5, 13)
	if l := b.Lines()[0]; !strings.HasPrefix(l, "⑥⑥") {
		t.Errorf("line 1 = %q", l)
	}
}

func TestBacklight(t *testing.T) {
	b := initBus(t, 2, 16)
	if !b.Backlight() {
		t.Fatal("backlight off")
	}
	f := frame('a', true)
	for i := range f {
		f[i] &^= pinBacklight
	}
	if err := b.Tx(addr, f, nil); err != nil {
		t.Fatal(err)
	}
	if b.Backlight() {
		t.Error("backlight on")
	}
	r := make([]byte, 1)
	if err := b.Tx(addr, nil, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != f[3] {
		t.Errorf("read %#x, want %#x", r[0], f[3])
	}
}

func TestErrors(t *testing.T) {
	b := New(nil)
	b.FailNext(2)
	for range 2 {
		if err := b.Tx(addr, frame(0x02, false), nil); !errors.Is(err, ErrInjected) {
			t.Fatalf("Tx() = %v", err)
		}
	}
	if b.FourBit() {
		t.Error("failed transfer reached the controller")
	}
	if err := b.Tx(0x3f, frame(0x02, false), nil); !errors.Is(err, ErrNoAck) {
		t.Errorf("Tx(0x3f) = %v", err)
	}
	if err := b.Tx(addr, frame(0x02, false), nil); err != nil {
		t.Fatal(err)
	}
	if n := b.Writes(); n != 1 {
		t.Errorf("Writes() = %d", n)
	}
	if err := b.SetSpeed(400 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if f := b.Speed(); f != 400*physic.KiloHertz {
		t.Errorf("Speed() = %s", f)
	}
	_ = b.Close()
	if err := b.Tx(addr, frame(0x02, false), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Tx() after Close = %v", err)
	}
}

func TestRune(t *testing.T) {
	for c, want := range map[byte]rune{'A': 'A', 0x00: '①', 0x0f: '⑧', 0x1b: '▯', 0xdf: '°', 0x5c: '¥', 0x90: '▯'} {
		if got := Rune(c); got != want {
			t.Errorf("Rune(%#x) = %q, want %q", c, got, want)
		}
	}
}

func TestTerminal(t *testing.T) {
	b := initBus(t, 2, 16)
	send(t, b, true, []byte("Hi")...)
	var buf bytes.Buffer
	term := NewTerminal(b, &TerminalOpts{W: &buf})
	if err := term.Refresh(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Hi              ") {
		t.Errorf("Refresh() = %q", out)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("%d lines, want 2", n)
	}
	buf.Reset()
	if err := term.Refresh(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\033[A\033[A") {
		t.Errorf("second Refresh() does not redraw in place: %q", buf.String())
	}
	if err := term.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshot(t *testing.T) {
	b := initBus(t, 2, 16)
	send(t, b, true, []byte("Hi")...)
	img := b.Snapshot()
	r := img.Bounds()
	if r.Dx() != 2*border+16*cellWidth || r.Dy() != 2*border+2*cellHeight {
		t.Errorf("Bounds() = %v", r)
	}
	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
	path := t.TempDir() + "/lcd.png"
	if err := b.SavePNG(path); err != nil {
		t.Fatal(err)
	}
}
