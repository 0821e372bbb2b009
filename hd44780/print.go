// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ByteSink shows one character code at a time. HD44780 implements it.
type ByteSink interface {
	WriteByte(c byte) error
}

// Base is the radix used by PrintInt.
type Base int

const (
	BIN Base = 2
	OCT Base = 8
	DEC Base = 10
	HEX Base = 16
)

// DefaultFloatDigits is the number of decimals Print uses for floats.
const DefaultFloatDigits = 2

// Printer formats numbers and text onto a ByteSink.
type Printer struct {
	sink ByteSink
}

// NewPrinter returns a Printer writing to s.
func NewPrinter(s ByteSink) *Printer {
	return &Printer{sink: s}
}

// Write sends p unchanged.
func (p *Printer) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := p.sink.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

func (p *Printer) writeString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := p.sink.WriteByte(s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// Print writes v. Integers are printed in decimal, floats with
// DefaultFloatDigits decimals and strings as raw bytes. Anything else goes
// through fmt.
func (p *Printer) Print(v any) (int, error) {
	switch x := v.(type) {
	case string:
		return p.writeString(x)
	case []byte:
		return p.Write(x)
	case byte:
		return p.PrintUint(uint64(x), DEC)
	case int:
		return p.PrintInt(int64(x), DEC)
	case int8:
		return p.PrintInt(int64(x), DEC)
	case int16:
		return p.PrintInt(int64(x), DEC)
	case int32:
		return p.PrintInt(int64(x), DEC)
	case int64:
		return p.PrintInt(x, DEC)
	case uint:
		return p.PrintUint(uint64(x), DEC)
	case uint16:
		return p.PrintUint(uint64(x), DEC)
	case uint32:
		return p.PrintUint(uint64(x), DEC)
	case uint64:
		return p.PrintUint(x, DEC)
	case float32:
		return p.PrintFloat(float64(x), DefaultFloatDigits)
	case float64:
		return p.PrintFloat(x, DefaultFloatDigits)
	}
	return p.writeString(fmt.Sprint(v))
}

// Println writes the operands separated by spaces like fmt.Println. The
// controller has no line feed, so no newline is written.
func (p *Printer) Println(v ...any) (int, error) {
	return p.writeString(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// PrintInt writes n in base. Digits above 9 are upper case. A base outside
// 2 to 36 prints in decimal.
func (p *Printer) PrintInt(n int64, base Base) (int, error) {
	return p.writeString(strings.ToUpper(strconv.FormatInt(n, base.radix())))
}

// PrintUint is PrintInt for unsigned values.
func (p *Printer) PrintUint(n uint64, base Base) (int, error) {
	return p.writeString(strings.ToUpper(strconv.FormatUint(n, base.radix())))
}

// PrintFloat writes f rounded to digits decimals. NaN and infinities are
// printed as "nan" and "inf".
func (p *Printer) PrintFloat(f float64, digits int) (int, error) {
	switch {
	case math.IsNaN(f):
		return p.writeString("nan")
	case math.IsInf(f, 1):
		return p.writeString("inf")
	case math.IsInf(f, -1):
		return p.writeString("-inf")
	}
	if digits < 0 {
		digits = 0
	}
	return p.writeString(strconv.FormatFloat(f, 'f', digits, 64))
}

// Text converts s with ToROM and writes it.
func (p *Printer) Text(s string) (int, error) {
	return p.Write(ToROM(s))
}

func (b Base) radix() int {
	if b < 2 || b > 36 {
		return int(DEC)
	}
	return int(b)
}
