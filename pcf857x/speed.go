// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcf857x

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Speed selects the I2C bus clock.
//
// 0 selects the default 100kHz baud rate mode. Any other value is a BCM2835
// I2C clock divider applied to the nominal 250MHz core clock, so the bus runs
// at 250MHz/Speed. The named dividers are the ones listed in the bcm2835
// library.
type Speed uint16

const (
	// SpeedDefault is the 100kHz baud rate mode.
	SpeedDefault Speed = 0

	ClockDivider2500 Speed = 2500 // 100kHz
	ClockDivider626  Speed = 626  // 399.3610kHz
	ClockDivider150  Speed = 150  // 1.666MHz
	ClockDivider148  Speed = 148  // 1.689MHz

	coreClock        = 250 * physic.MegaHertz
	defaultFrequency = 100 * physic.KiloHertz
	// The fastest divider the BCM2835 BSC accepts is 2.
	minDivider = 2
)

// Frequency returns the bus clock selected by s.
func (s Speed) Frequency() (physic.Frequency, error) {
	if s == SpeedDefault {
		return defaultFrequency, nil
	}
	if s < minDivider {
		return 0, fmt.Errorf("pcf857x: invalid clock divider %d", s)
	}
	return coreClock / physic.Frequency(s), nil
}

func (s Speed) String() string {
	f, err := s.Frequency()
	if err != nil {
		return fmt.Sprintf("Speed(%d)", uint16(s))
	}
	if s == SpeedDefault {
		return "default(" + f.String() + ")"
	}
	return fmt.Sprintf("divider %d(%s)", uint16(s), f)
}
