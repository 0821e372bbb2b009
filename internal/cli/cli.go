// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cli holds the flags, logging and display setup shared by the
// commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/hd44780"
	"github.com/GermanBionicSystems/lcdbackpack/lcdemu"
	"github.com/GermanBionicSystems/lcdbackpack/pcf857x"
	"github.com/sirupsen/logrus"
)

// Flags is the display configuration taken from the command line.
type Flags struct {
	Bus     string
	Addr    uint
	Rows    int
	Cols    int
	Speed   uint
	Cursor  string
	Debug   bool
	Emulate bool
	PNG     string
}

// Register adds the flags to fs with defaults for a 16x2 module.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Bus, "bus", "", "I²C bus to use, empty for the first one")
	fs.UintVar(&f.Addr, "addr", uint(pcf857x.DefaultAddress), "backpack I²C address")
	fs.IntVar(&f.Rows, "rows", 2, "display rows")
	fs.IntVar(&f.Cols, "cols", 16, "display columns")
	fs.UintVar(&f.Speed, "speed", 0, "BCM2835 clock divider (2500, 626, 150, 148), 0 for 100kHz")
	fs.StringVar(&f.Cursor, "cursor", "off", "cursor type: off, blink, on, onblink")
	fs.BoolVar(&f.Debug, "debug", false, "log I²C diagnostics")
	fs.BoolVar(&f.Emulate, "emulate", false, "draw on the terminal instead of using hardware")
	fs.StringVar(&f.PNG, "png", "", "with -emulate, save the last screen to this PNG file")
}

// ParseCursor returns the cursor type named s.
func ParseCursor(s string) (hd44780.CursorType, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return hd44780.CursorTypeOff, nil
	case "blink":
		return hd44780.CursorTypeBlink, nil
	case "on", "underline":
		return hd44780.CursorTypeOn, nil
	case "onblink":
		return hd44780.CursorTypeOnBlink, nil
	}
	return 0, fmt.Errorf("unknown cursor type %q", s)
}

// NewLogger returns a console logger. debug lowers the level to Debug.
func NewLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Opts converts the flags to display options.
func (f *Flags) Opts(log logrus.FieldLogger) (*hd44780.Opts, error) {
	ct, err := ParseCursor(f.Cursor)
	if err != nil {
		return nil, err
	}
	if f.Addr > 0x7f {
		return nil, fmt.Errorf("invalid I²C address %#x", f.Addr)
	}
	if f.Speed > 0xffff {
		return nil, fmt.Errorf("invalid clock divider %d", f.Speed)
	}
	opts := hd44780.DefaultOpts
	opts.Rows = f.Rows
	opts.Cols = f.Cols
	opts.Address = uint16(f.Addr)
	opts.Speed = pcf857x.Speed(f.Speed)
	opts.Cursor = ct
	opts.Debug = f.Debug
	opts.Logger = log
	return &opts, nil
}

// Session is an open display, on hardware or emulated.
type Session struct {
	LCD *hd44780.HD44780
	// Emu is nil on hardware.
	Emu *lcdemu.Bus

	term *lcdemu.Terminal
	png  string
	log  logrus.FieldLogger
}

// Open opens the display described by f.
func (f *Flags) Open(log logrus.FieldLogger) (*Session, error) {
	opts, err := f.Opts(log)
	if err != nil {
		return nil, err
	}
	s := &Session{log: log, png: f.PNG}
	if f.Emulate {
		s.Emu = lcdemu.New(&lcdemu.Opts{Rows: f.Rows, Cols: f.Cols, Address: opts.Address})
		s.term = lcdemu.NewTerminal(s.Emu, nil)
		s.LCD, err = hd44780.NewPCF857xBackpackOpts(s.Emu, opts)
	} else {
		s.LCD, err = hd44780.OpenPCF857xBackpack(f.Bus, opts)
	}
	if err != nil {
		return nil, err
	}
	log.WithField("display", s.LCD.String()).Info("display ready")
	return s, s.Show()
}

// Show redraws the emulated display. It does nothing on hardware.
func (s *Session) Show() error {
	if s.term == nil {
		return nil
	}
	return s.term.Refresh()
}

// Pause shows the display then waits for d or until ctx is done.
func (s *Session) Pause(ctx context.Context, d time.Duration) error {
	if err := s.Show(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Close saves the PNG snapshot if requested, turns the display off and
// releases the bus.
func (s *Session) Close() error {
	if s.Emu != nil && s.png != "" {
		if err := s.Emu.SavePNG(s.png); err != nil {
			s.log.WithError(err).Error("saving snapshot")
		} else {
			s.log.WithField("file", s.png).Info("snapshot saved")
		}
	}
	err := s.LCD.Halt()
	if s.term != nil {
		_ = s.term.Refresh()
		_ = s.term.Halt()
	}
	if n := s.LCD.Errors(); n != 0 {
		s.log.WithField("errors", n).Warn("I²C errors during the session")
	}
	return err
}
