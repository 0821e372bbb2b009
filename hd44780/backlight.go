// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/display"
)

// Turn the display backlight on or off. The backpack switches the backlight
// with a transistor, so any non zero intensity is full on.
//
// Unlike BacklightSet the display control command is sent again so the change
// is visible immediately.
func (lcd *HD44780) Backlight(intensity display.Intensity) error {
	lcd.BacklightSet(intensity > 0)
	cmd := byte(lcd.cursor)
	if !lcd.on {
		cmd &^= displayOnBit
	}
	return lcd.sendCommand(cmd)
}

var _ display.DisplayBacklight = &HD44780{}
