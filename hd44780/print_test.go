// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type sink struct {
	b     []byte
	limit int
}

func (s *sink) WriteByte(c byte) error {
	if s.limit > 0 && len(s.b) == s.limit {
		return errors.New("full")
	}
	s.b = append(s.b, c)
	return nil
}

func TestPrinter(t *testing.T) {
	tests := []struct {
		name string
		f    func(p *Printer) (int, error)
		want string
	}{
		{"hex", func(p *Printer) (int, error) { return p.PrintInt(11, HEX) }, "B"},
		{"hex wide", func(p *Printer) (int, error) { return p.PrintInt(0xbeef, HEX) }, "BEEF"},
		{"bin", func(p *Printer) (int, error) { return p.PrintInt(255, BIN) }, "11111111"},
		{"oct", func(p *Printer) (int, error) { return p.PrintInt(8, OCT) }, "10"},
		{"dec negative", func(p *Printer) (int, error) { return p.PrintInt(-42, DEC) }, "-42"},
		{"bad base", func(p *Printer) (int, error) { return p.PrintInt(42, Base(1)) }, "42"},
		{"uint", func(p *Printer) (int, error) { return p.PrintUint(math.MaxUint64, HEX) }, "FFFFFFFFFFFFFFFF"},
		{"float", func(p *Printer) (int, error) { return p.PrintFloat(3.14159, 3) }, "3.142"},
		{"float zero digits", func(p *Printer) (int, error) { return p.PrintFloat(2.6, 0) }, "3"},
		{"nan", func(p *Printer) (int, error) { return p.PrintFloat(math.NaN(), 2) }, "nan"},
		{"inf", func(p *Printer) (int, error) { return p.PrintFloat(math.Inf(-1), 2) }, "-inf"},
		{"print float", func(p *Printer) (int, error) { return p.Print(3.14159) }, "3.14"},
		{"print int", func(p *Printer) (int, error) { return p.Print(1234) }, "1234"},
		{"print uint16", func(p *Printer) (int, error) { return p.Print(uint16(7)) }, "7"},
		{"print string", func(p *Printer) (int, error) { return p.Print("Hello") }, "Hello"},
		{"print bool", func(p *Printer) (int, error) { return p.Print(true) }, "true"},
		{"println", func(p *Printer) (int, error) { return p.Println("t", 21, 'x') }, "t 21 120"},
		{"text", func(p *Printer) (int, error) { return p.Text("21°C") }, "21\xdfC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &sink{}
			n, err := tc.f(NewPrinter(s))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, string(s.b)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			if n != len(tc.want) {
				t.Errorf("n = %d, want %d", n, len(tc.want))
			}
		})
	}
}

func TestPrinterError(t *testing.T) {
	s := &sink{limit: 2}
	n, err := NewPrinter(s).Print("Hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestPrinterDisplay(t *testing.T) {
	lcd, emu := getEmulated(t, 2, 16)
	p := NewPrinter(lcd)
	_, _ = p.Print("v=")
	_, _ = p.PrintInt(255, HEX)
	_ = lcd.GoTo(LineTwo, 0)
	_, _ = p.Text("Crème 5°")
	want := []string{"v=FF            ", "Creme 5°        "}
	if diff := cmp.Diff(want, emu.Lines()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
