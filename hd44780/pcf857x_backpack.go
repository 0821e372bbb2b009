// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"github.com/GermanBionicSystems/lcdbackpack/pcf857x"
	"periph.io/x/conn/v3/i2c"
)

// This function returns a display configured to use the pcf8574 i2c backpacks.
//
// # Product Information
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// To use this, get an I2C bus, and call this function with the bus, i2c
// address, number of rows, and columns. The bus stays owned by the caller.
func NewPCF857xBackpack(bus i2c.Bus, address uint16, rows, cols int) (*HD44780, error) {
	opts := DefaultOpts
	opts.Address = address
	opts.Rows = rows
	opts.Cols = cols
	return NewPCF857xBackpackOpts(bus, &opts)
}

// NewPCF857xBackpackOpts is NewPCF857xBackpack with the full set of options.
func NewPCF857xBackpackOpts(bus i2c.Bus, opts *Opts) (*HD44780, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := checkGeometry(opts.Rows, opts.Cols); err != nil {
		return nil, err
	}
	pcf, err := pcf857x.New(bus, &pcf857x.Opts{Address: opts.Address, Speed: opts.Speed})
	if err != nil {
		return nil, err
	}
	return newBackpack(pcf, opts)
}

// OpenPCF857xBackpack opens the named I2C bus, an empty name selects the
// first one, and returns an initialized display on it. Halt turns the display
// off and closes the bus.
func OpenPCF857xBackpack(busName string, opts *Opts) (*HD44780, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := checkGeometry(opts.Rows, opts.Cols); err != nil {
		return nil, err
	}
	pcf, err := pcf857x.Open(busName, &pcf857x.Opts{Address: opts.Address, Speed: opts.Speed})
	if err != nil {
		return nil, err
	}
	lcd, err := newBackpack(pcf, opts)
	if err != nil {
		_ = pcf.Close()
		return nil, err
	}
	return lcd, nil
}

func newBackpack(pcf *pcf857x.Dev, opts *Opts) (*HD44780, error) {
	lcd, err := New(pcf, opts)
	if err != nil {
		return nil, err
	}
	if err := pcf.SpeedErr(); err != nil && lcd.debug {
		lcd.log.WithError(err).Warn("hd44780: bus clock unchanged")
	}
	return lcd, nil
}

func checkGeometry(rows, cols int) error {
	if rows < 1 || rows > 4 || cols < 1 || cols > lineLength {
		return fmt.Errorf("%w: %d rows, %d cols", ErrInvalidGeometry, rows, cols)
	}
	return nil
}
