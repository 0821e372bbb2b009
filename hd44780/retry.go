// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryPolicy bounds the resending of a frame whose transfer failed.
//
// The same frame is sent again after Delay until it succeeds, Attempts
// retries were made or Timeout elapsed since the first failure. A negative
// Attempts retries without a count limit. At least one retry is always made.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	// Timeout is ignored when zero.
	Timeout time.Duration
}

// DefaultRetryPolicy retries 10 times, 25ms apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 10, Delay: 25 * time.Millisecond}

// debugRetryDelay is added to each retry in debug mode so the log stays
// readable on a failing bus.
const debugRetryDelay = 100 * time.Millisecond

func (p RetryPolicy) allows(retry int) bool {
	return p.Attempts < 0 || retry <= max(p.Attempts, 1)
}

// transmit writes f, retrying per the session's policy. Each failed write
// counts towards Errors.
func (lcd *HD44780) transmit(f Frame) error {
	var deadline time.Time
	for retry := 0; ; retry++ {
		err := lcd.t.WriteFrame(f)
		if err == nil {
			return nil
		}
		lcd.errors++
		if retry == 0 && lcd.retry.Timeout > 0 {
			deadline = lcd.now().Add(lcd.retry.Timeout)
		}
		if !lcd.retry.allows(retry+1) || (retry > 0 && !deadline.IsZero() && !lcd.now().Before(deadline)) {
			if lcd.debug {
				lcd.log.WithFields(logrus.Fields{
					"frame":   fmt.Sprintf("% x", f[:]),
					"retries": retry,
				}).WithError(err).Error("hd44780: giving up on frame")
			}
			return fmt.Errorf("%w after %d retries: %w", ErrTransfer, retry, err)
		}
		if lcd.debug {
			lcd.log.WithFields(logrus.Fields{
				"frame":   fmt.Sprintf("% x", f[:]),
				"attempt": retry + 1,
				"errors":  lcd.errors,
			}).WithError(err).Warn("hd44780: i2c transfer failed, retrying")
			lcd.sleep(debugRetryDelay)
		}
		lcd.sleep(lcd.retry.Delay)
	}
}
