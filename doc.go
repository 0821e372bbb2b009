// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdbackpack drives HD44780 character LCD modules through a PCF8574
// I²C backpack.
//
// The driver lives in hd44780, the expander in pcf857x and a software model
// of the module, for tests and for running without hardware, in lcdemu.
// cmd/lcdtest and cmd/lcdclock are small programs built on them.
package lcdbackpack
