// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func getDev(t *testing.T, opts *Opts) (*Dev, *i2ctest.Record) {
	bus := &i2ctest.Record{}
	dev, err := New(bus, opts)
	if err != nil {
		t.Fatal(err)
	}
	return dev, bus
}

func TestBasic(t *testing.T) {
	dev, _ := getDev(t, nil)
	if dev.Addr() != DefaultAddress {
		t.Errorf("Addr() expected 0x%x, received 0x%x", DefaultAddress, dev.Addr())
	}
	if dev.Speed() != SpeedDefault {
		t.Errorf("Speed() expected %s, received %s", SpeedDefault, dev.Speed())
	}
	if err := dev.SpeedErr(); err != nil {
		t.Errorf("unexpected SpeedErr() %v", err)
	}
	s := dev.String()
	if !strings.HasPrefix(s, "PCF8574_") {
		t.Errorf("String() returned %q", s)
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
}

func TestWriteFrame(t *testing.T) {
	dev, bus := getDev(t, &Opts{Address: 0x3f})
	frames := [][FrameSize]byte{
		{0x4d, 0x49, 0x8d, 0x89},
		{0x0c, 0x08, 0x1c, 0x18},
	}
	var want []i2ctest.IO
	for _, f := range frames {
		if err := dev.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
		want = append(want, i2ctest.IO{Addr: 0x3f, W: []byte{f[0], f[1], f[2], f[3]}})
	}
	if diff := cmp.Diff(bus.Ops, want); diff != "" {
		t.Errorf("WriteFrame() difference (-got +want):\n%s", diff)
	}
	if v := dev.Value(); v != 0x18 {
		t.Errorf("Value() expected 0x18, received 0x%x", v)
	}
	n, err := dev.Write(nil)
	if n != 0 || err != nil {
		t.Errorf("Write(nil) returned %d, %v", n, err)
	}
	if len(bus.Ops) != len(frames) {
		t.Error("Write(nil) should not reach the bus")
	}
}

func TestWriteFailure(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	dev, err := New(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = dev.WriteFrame([FrameSize]byte{0x0c, 0x08, 0x2c, 0x28})
	if !errors.Is(err, ErrTransfer) {
		t.Errorf("expected ErrTransfer, received %v", err)
	}
	if dev.Value() != 0 {
		t.Error("Value() must not change on a failed write")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrBusUnavailable) {
		t.Errorf("New(nil) expected ErrBusUnavailable, received %v", err)
	}
	if _, err := New(&i2ctest.Record{}, &Opts{Address: 0x80}); !errors.Is(err, ErrBusUnavailable) {
		t.Errorf("New(addr=0x80) expected ErrBusUnavailable, received %v", err)
	}
	if _, err := New(&i2ctest.Record{}, &Opts{Speed: 1}); err == nil {
		t.Error("New(speed=1) expected an error")
	}
}

func TestSpeed(t *testing.T) {
	for _, tc := range []struct {
		speed Speed
		want  physic.Frequency
	}{
		{SpeedDefault, 100 * physic.KiloHertz},
		{ClockDivider2500, 100 * physic.KiloHertz},
		{ClockDivider626, 250 * physic.MegaHertz / 626},
		{ClockDivider150, 250 * physic.MegaHertz / 150},
		{ClockDivider148, 250 * physic.MegaHertz / 148},
	} {
		got, err := tc.speed.Frequency()
		if err != nil {
			t.Errorf("%s: %v", tc.speed, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %s, received %s", tc.speed, tc.want, got)
		}
	}
}

func TestClose(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{{Addr: DefaultAddress, W: []byte{0x0c, 0x08, 0x0c, 0x08}}},
	}
	dev, err := New(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	dev.closer = bus
	if err = dev.WriteFrame([FrameSize]byte{0x0c, 0x08, 0x0c, 0x08}); err != nil {
		t.Fatal(err)
	}
	if err = dev.Close(); err != nil {
		t.Error(err)
	}
	if err = dev.Close(); err != nil {
		t.Errorf("second Close() returned %v", err)
	}
	if err = dev.WriteFrame([FrameSize]byte{}); !errors.Is(err, ErrTransfer) {
		t.Errorf("WriteFrame() after Close() expected ErrTransfer, received %v", err)
	}
	if s := dev.String(); s != "PCF8574_closed" {
		t.Errorf("String() after Close() returned %q", s)
	}
}

type tinyBus struct {
	writes [][]byte
}

func (b *tinyBus) Tx(addr uint16, w, r []byte) error {
	b.writes = append(b.writes, append([]byte(nil), w...))
	return nil
}

func TestTinyGoBus(t *testing.T) {
	tb := &tinyBus{}
	dev, err := New(&TinyGoBus{Bus: tb}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(dev.SpeedErr(), ErrNotImplemented) {
		t.Errorf("SpeedErr() expected ErrNotImplemented, received %v", dev.SpeedErr())
	}
	frame := [FrameSize]byte{0x2d, 0x29, 0x1d, 0x19}
	if err = dev.WriteFrame(frame); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tb.writes, [][]byte{frame[:]}); diff != "" {
		t.Errorf("TinyGoBus.Tx() difference (-got +want):\n%s", diff)
	}
}
