// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/hd44780"
	"github.com/GermanBionicSystems/lcdbackpack/lcdemu"
	"github.com/GermanBionicSystems/lcdbackpack/pcf857x"
	"github.com/google/go-cmp/cmp"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestClock(t *testing.T) {
	bus := lcdemu.New(nil)
	lcd, err := hd44780.NewPCF857xBackpack(bus, pcf857x.DefaultAddress, 2, 16)
	if err != nil {
		t.Fatal(err)
	}
	log, hook := logtest.NewNullLogger()
	cet := time.FixedZone("CET", 3600)
	now := time.Date(2024, 12, 31, 23, 59, 58, 0, cet)
	shows := 0
	c := &clock{
		lcd:  lcd,
		show: func() error { shows++; return nil },
		now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
		log: log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	tick := make(chan time.Time)
	done := make(chan error)
	go func() { done <- c.run(ctx, tick) }()
	tick <- time.Time{}
	tick <- time.Time{}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run() = %v", err)
	}

	want := []string{"2024-12-31      ", "23:00:01 UTC    "}
	if diff := cmp.Diff(want, bus.Lines()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if shows != 3 {
		t.Errorf("shows = %d, want 3", shows)
	}
	if len(hook.Entries) != 0 {
		t.Errorf("unexpected log: %v", hook.LastEntry())
	}
}

func TestClockShowError(t *testing.T) {
	bus := lcdemu.New(nil)
	lcd, err := hd44780.NewPCF857xBackpack(bus, pcf857x.DefaultAddress, 2, 16)
	if err != nil {
		t.Fatal(err)
	}
	log, hook := logtest.NewNullLogger()
	c := &clock{lcd: lcd, show: func() error { return errors.New("tty gone") }, now: time.Now, log: log}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("run() = %v", err)
	}
	e := hook.LastEntry()
	if e == nil || e.Message != "refresh failed" {
		t.Fatalf("LastEntry() = %v", e)
	}
	if err, _ := e.Data["error"].(error); err == nil || err.Error() != "tty gone" {
		t.Errorf("error field = %v", e.Data["error"])
	}
}

func TestClockClosedBus(t *testing.T) {
	bus := lcdemu.New(nil)
	opts := hd44780.DefaultOpts
	opts.Retry = hd44780.RetryPolicy{Attempts: 1}
	lcd, err := hd44780.NewPCF857xBackpackOpts(bus, &opts)
	if err != nil {
		t.Fatal(err)
	}
	log, _ := logtest.NewNullLogger()
	c := &clock{lcd: lcd, show: func() error { return nil }, now: time.Now, log: log}
	_ = bus.Close()
	if err := c.run(context.Background(), nil); !errors.Is(err, hd44780.ErrTransfer) {
		t.Fatalf("run() = %v", err)
	}
}
