// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdclock shows the UTC date and time on an HD44780 display, refreshed
// every second. Ctrl-C turns the display off and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/hd44780"
	"github.com/GermanBionicSystems/lcdbackpack/internal/cli"
	"github.com/sirupsen/logrus"
)

const stamp = "2006-01-02 15:04:05 UTC"

type clock struct {
	lcd  *hd44780.HD44780
	show func() error
	now  func() time.Time
	log  logrus.FieldLogger
}

// draw writes the date on the first line and the time on the second.
func (c *clock) draw() error {
	s := c.now().UTC().Format(stamp)
	if err := c.lcd.GoTo(hd44780.LineOne, 0); err != nil {
		return err
	}
	if err := c.lcd.SendString(s[:10]); err != nil {
		return err
	}
	if err := c.lcd.GoTo(hd44780.LineTwo, 0); err != nil {
		return err
	}
	if err := c.lcd.SendString(s[11:]); err != nil {
		return err
	}
	return c.show()
}

// run draws on every tick until ctx is done. A failed refresh is logged and
// retried on the next tick.
func (c *clock) run(ctx context.Context, tick <-chan time.Time) error {
	if err := c.lcd.ClearScreenCmd(); err != nil {
		return err
	}
	for {
		if err := c.draw(); err != nil {
			c.log.WithError(err).Warn("refresh failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

func mainImpl() error {
	var f cli.Flags
	f.Register(flag.CommandLine)
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	log := cli.NewLogger(f.Debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := f.Open(log)
	if err != nil {
		return err
	}
	t := time.NewTicker(time.Second)
	defer t.Stop()
	c := &clock{lcd: s.LCD, show: s.Show, now: time.Now, log: log}
	err = c.run(ctx, t.C)
	if errors.Is(err, context.Canceled) {
		log.Info("stopping")
		err = nil
	}
	if err2 := s.Close(); err == nil {
		err = err2
	}
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "lcdclock: %s.\n", err)
		os.Exit(1)
	}
}
