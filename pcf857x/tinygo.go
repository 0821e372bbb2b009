// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// TinyGoBus adapts a tinygo.org/x/drivers I2C bus, for example a USB bridge
// or a bit-banged bus written against that interface, to a periph i2c.Bus so
// it can carry a Dev.
//
// The drivers.I2C interface has no way to set the clock, so SetSpeed returns
// ErrNotImplemented and New records it in SpeedErr.
type TinyGoBus struct {
	Bus  drivers.I2C
	Name string
}

func (b *TinyGoBus) String() string {
	if b.Name == "" {
		return "tinygo-i2c"
	}
	return b.Name
}

// Tx implements i2c.Bus.
func (b *TinyGoBus) Tx(addr uint16, w, r []byte) error {
	return b.Bus.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (b *TinyGoBus) SetSpeed(f physic.Frequency) error {
	return ErrNotImplemented
}

var _ i2c.Bus = &TinyGoBus{}
