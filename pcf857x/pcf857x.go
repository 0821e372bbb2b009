// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// This package provides the I2C transport for a TI/NXP PCF8574 I/O expander
// used as an HD44780 LCD backpack. These boards are commonly sold as LCD2004
// or LCD1602 I2C modules.
//
// The expander has no register architecture. Every byte written to it is
// latched onto the 8 output pins, so a sequence of bytes written in one
// transaction becomes a sequence of pin states on the LCD connector. The LCD
// protocol engine (see package hd44780) builds those sequences. This package
// only owns the bus: claiming it, setting the slave address and clock, writing
// frames and releasing it again.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/pcf8574.pdf
//
// A good description of the I2C LCD backpack usage can be found here:
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
//
// # Notes
//
// Setting a pin to Low activates an Open Drain to ground. The R/W line of the
// LCD is wired to P1 on these backpacks and is always written Low.
package pcf857x

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	// DefaultAddress is the address of a PCF8574T backpack with A0-A2 open.
	// PCF8574AT boards use 0x3f.
	DefaultAddress uint16 = 0x27

	// FrameSize is the number of bytes in one HD44780 transfer.
	FrameSize = 4
)

var (
	// ErrBusUnavailable is returned when the I2C bus cannot be claimed. This
	// usually means insufficient privilege or the bus device is absent.
	ErrBusUnavailable = errors.New("pcf857x: i2c bus unavailable")
	// ErrTransfer is returned when a write to the expander fails.
	ErrTransfer = errors.New("pcf857x: i2c transfer failed")
	// ErrNotImplemented is returned by bus adapters that can't set the clock.
	ErrNotImplemented = errors.New("pcf857x: not implemented")
)

// Opts holds the bus configuration consumed at construction.
type Opts struct {
	// Address is the 7-bit slave address. 0 selects DefaultAddress.
	Address uint16
	// Speed selects the bus clock. See Speed.
	Speed Speed
}

// DefaultOpts is a PCF8574T at 0x27 with the bus clocked at 100kHz.
var DefaultOpts = Opts{Address: DefaultAddress, Speed: SpeedDefault}

// Dev is a PCF8574 backpack on an I2C bus.
type Dev struct {
	mu       sync.Mutex
	d        *i2c.Dev
	addr     uint16
	closer   io.Closer
	speed    Speed
	speedErr error
	value    byte
}

// Open initializes the host drivers, claims the named I2C bus and returns a
// Dev that owns it. An empty name selects the first available bus. Close
// releases the bus.
func Open(name string, opts *Opts) (*Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusUnavailable, err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusUnavailable, err)
	}
	dev, err := New(bus, opts)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	dev.closer = bus
	return dev, nil
}

// New returns a Dev on a bus owned by the caller. Close does not close the
// bus.
//
// The bus clock is applied on a best effort basis. Many Linux I2C drivers
// only allow the clock to be set through the device tree, so a failure to set
// it is recorded and reported by SpeedErr rather than failing New.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: nil bus", ErrBusUnavailable)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Address
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("%w: invalid 7-bit address 0x%x", ErrBusUnavailable, addr)
	}
	f, err := opts.Speed.Frequency()
	if err != nil {
		return nil, err
	}
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}, addr: addr, speed: opts.Speed}
	if err = bus.SetSpeed(f); err != nil {
		dev.speedErr = fmt.Errorf("pcf857x: setting bus clock to %s: %w", f, err)
	}
	return dev, nil
}

// WriteFrame transmits one 4 byte HD44780 frame in a single I2C write. It
// makes exactly one attempt. Retrying is up to the caller.
func (dev *Dev) WriteFrame(frame [FrameSize]byte) error {
	_, err := dev.Write(frame[:])
	return err
}

// Write sends p to the expander in one transaction. Each byte is latched onto
// the output pins in order.
func (dev *Dev) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.d == nil {
		return 0, fmt.Errorf("%w: device closed", ErrTransfer)
	}
	if err := dev.d.Tx(p, nil); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	dev.value = p[len(p)-1]
	return len(p), nil
}

// Value returns the last byte latched on the expander pins.
func (dev *Dev) Value() byte {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.value
}

// Addr returns the slave address.
func (dev *Dev) Addr() uint16 {
	return dev.addr
}

// Speed returns the configured speed selector.
func (dev *Dev) Speed() Speed {
	return dev.speed
}

// SpeedErr returns the error from setting the bus clock, if any.
func (dev *Dev) SpeedErr() error {
	return dev.speedErr
}

// Close releases the bus if it was opened by Open. Further writes fail with
// ErrTransfer. Calling Close more than once is safe.
func (dev *Dev) Close() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	var err error
	if dev.closer != nil {
		err = dev.closer.Close()
		dev.closer = nil
	}
	dev.d = nil
	if err != nil {
		err = fmt.Errorf("pcf857x: %w", err)
	}
	return err
}

// Halt implements conn.Resource. It releases the bus.
func (dev *Dev) Halt() error {
	return dev.Close()
}

func (dev *Dev) String() string {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.d == nil {
		return "PCF8574_closed"
	}
	return fmt.Sprintf("PCF8574_%x", dev.addr)
}

var _ conn.Resource = &Dev{}
var _ io.Writer = &Dev{}
