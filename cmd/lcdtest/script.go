// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/hd44780"
	"github.com/GermanBionicSystems/lcdbackpack/internal/cli"
	"github.com/google/shlex"
)

var errUsage = errors.New("bad arguments")

// command is one script statement. args excludes the command name.
type command struct {
	nargs int // -1 for any
	usage string
	run   func(ctx context.Context, r *runner, args []string) error
}

var commands = map[string]command{
	"clear": {0, "clear", func(_ context.Context, r *runner, _ []string) error {
		return r.lcd.ClearScreenCmd()
	}},
	"blank": {0, "blank", func(_ context.Context, r *runner, _ []string) error {
		return r.lcd.ClearScreen()
	}},
	"clearline": {1, "clearline <line>", func(_ context.Context, r *runner, a []string) error {
		l, err := parseLine(a[0])
		if err != nil {
			return err
		}
		return r.lcd.ClearLine(l)
	}},
	"home": {0, "home", func(_ context.Context, r *runner, _ []string) error {
		return r.lcd.Home()
	}},
	"goto": {2, "goto <line> <col>", func(_ context.Context, r *runner, a []string) error {
		l, err := parseLine(a[0])
		if err != nil {
			return err
		}
		col, err := strconv.Atoi(a[1])
		if err != nil {
			return err
		}
		return r.lcd.GoTo(l, col)
	}},
	"print": {-1, "print <text>...", func(_ context.Context, r *runner, a []string) error {
		_, err := hd44780.NewPrinter(r.lcd).Text(strings.Join(a, " "))
		return err
	}},
	"int": {2, "int <n> dec|oct|hex|bin", func(_ context.Context, r *runner, a []string) error {
		n, err := strconv.ParseInt(a[0], 0, 64)
		if err != nil {
			return err
		}
		b, err := parseBase(a[1])
		if err != nil {
			return err
		}
		_, err = hd44780.NewPrinter(r.lcd).PrintInt(n, b)
		return err
	}},
	"float": {2, "float <f> <digits>", func(_ context.Context, r *runner, a []string) error {
		f, err := strconv.ParseFloat(a[0], 64)
		if err != nil {
			return err
		}
		d, err := strconv.Atoi(a[1])
		if err != nil {
			return err
		}
		_, err = hd44780.NewPrinter(r.lcd).PrintFloat(f, d)
		return err
	}},
	"move": {2, "move left|right <n>", func(_ context.Context, r *runner, a []string) error {
		dir, n, err := parseMove(a)
		if err != nil {
			return err
		}
		return r.lcd.MoveCursor(dir, n)
	}},
	"scroll": {2, "scroll left|right <n>", func(_ context.Context, r *runner, a []string) error {
		dir, n, err := parseMove(a)
		if err != nil {
			return err
		}
		return r.lcd.Scroll(dir, n)
	}},
	"cursor": {1, "cursor off|blink|on|onblink", func(_ context.Context, r *runner, a []string) error {
		ct, err := cli.ParseCursor(a[0])
		if err != nil {
			return err
		}
		return r.lcd.ResetScreen(ct)
	}},
	"entry": {1, "entry <mode>", func(_ context.Context, r *runner, a []string) error {
		m, err := strconv.ParseUint(a[0], 0, 8)
		if err != nil {
			return err
		}
		return r.lcd.ChangeEntryMode(hd44780.EntryMode(m))
	}},
	"glyph": {2, "glyph <slot> <name>", func(_ context.Context, r *runner, a []string) error {
		slot, err := strconv.ParseUint(a[0], 0, 8)
		if err != nil {
			return err
		}
		g, ok := glyphByName(a[1])
		if !ok {
			return fmt.Errorf("unknown glyph %q", a[1])
		}
		return r.lcd.CreateCustomChar(uint8(slot), g)
	}},
	"char": {1, "char <slot>", func(_ context.Context, r *runner, a []string) error {
		slot, err := strconv.ParseUint(a[0], 0, 8)
		if err != nil {
			return err
		}
		return r.lcd.PrintCustomChar(uint8(slot))
	}},
	"backlight": {1, "backlight on|off", func(_ context.Context, r *runner, a []string) error {
		on, err := parseOnOff(a[0])
		if err != nil {
			return err
		}
		r.lcd.BacklightSet(on)
		return nil
	}},
	"display": {1, "display on|off", func(_ context.Context, r *runner, a []string) error {
		on, err := parseOnOff(a[0])
		if err != nil {
			return err
		}
		return r.lcd.DisplayOn(on)
	}},
	"sleep": {1, "sleep <duration>", func(ctx context.Context, r *runner, a []string) error {
		d, err := time.ParseDuration(a[0])
		if err != nil {
			return err
		}
		return r.disp.Pause(ctx, d)
	}},
	"sequence": {0, "sequence", func(ctx context.Context, r *runner, _ []string) error {
		return r.run(ctx)
	}},
}

// runScript executes one command per line of src. Arguments are split the
// way a shell would, so text with spaces must be quoted.
func (r *runner) runScript(ctx context.Context, src io.Reader) error {
	s := bufio.NewScanner(src)
	for n := 1; s.Scan(); n++ {
		args, err := shlex.Split(s.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if len(args) == 0 {
			continue
		}
		if err := r.exec(ctx, args); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if err := r.disp.Show(); err != nil {
			return err
		}
	}
	return s.Err()
}

func (r *runner) exec(ctx context.Context, args []string) error {
	c, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	if c.nargs >= 0 && len(args)-1 != c.nargs {
		return fmt.Errorf("%w: usage: %s", errUsage, c.usage)
	}
	r.log.WithField("cmd", strings.Join(args, " ")).Debug("exec")
	return c.run(ctx, r, args[1:])
}

func parseLine(s string) (hd44780.Line, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return hd44780.Line(n), nil
}

func parseBase(s string) (hd44780.Base, error) {
	switch strings.ToLower(s) {
	case "dec":
		return hd44780.DEC, nil
	case "oct":
		return hd44780.OCT, nil
	case "hex":
		return hd44780.HEX, nil
	case "bin":
		return hd44780.BIN, nil
	}
	return 0, fmt.Errorf("unknown base %q", s)
}

func parseMove(a []string) (hd44780.Direction, int, error) {
	var dir hd44780.Direction
	switch a[0] {
	case "right":
		dir = hd44780.MoveRight
	case "left":
		dir = hd44780.MoveLeft
	default:
		return 0, 0, fmt.Errorf("unknown direction %q", a[0])
	}
	n, err := strconv.Atoi(a[1])
	return dir, n, err
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}
