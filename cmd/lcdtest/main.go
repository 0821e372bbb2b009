// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lcdtest exercises an HD44780 display on a PCF8574 backpack.
//
// Without arguments it runs a fixed sequence showing each feature of the
// driver. With -script it runs commands from a file, one per line:
//
//	clear
//	goto 1 0
//	print "Hello world"
//	glyph 0 heart
//	char 0
//	sleep 2s
//
// -emulate draws on the terminal instead of driving hardware.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/lcdbackpack/internal/cli"
)

func mainImpl() error {
	var f cli.Flags
	f.Register(flag.CommandLine)
	script := flag.String("script", "", "run commands from this file, - for stdin")
	pause := flag.Duration("pause", time.Second, "base delay between steps")
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
	r := &runner{lcd: s.LCD, disp: s, pause: *pause, log: log}
	if *script == "" {
		err = r.run(ctx)
	} else {
		var src io.ReadCloser = os.Stdin
		if *script != "-" {
			if src, err = os.Open(*script); err != nil {
				_ = s.Close()
				return err
			}
		}
		err = r.runScript(ctx, src)
		_ = src.Close()
	}
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted")
		err = nil
	}
	if err2 := s.Close(); err == nil {
		err = err2
	}
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "lcdtest: %s.\n", err)
		os.Exit(1)
	}
}
