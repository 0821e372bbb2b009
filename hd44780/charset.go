// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romCodes maps characters present in the A00 (Japanese) character ROM
// outside of ASCII.
var romCodes = map[rune]byte{
	'¥': 0x5c,
	'→': 0x7e,
	'←': 0x7f,
	'·': 0xa5,
	'°': 0xdf,
	'α': 0xe0,
	'ä': 0xe1,
	'ß': 0xe2,
	'β': 0xe2,
	'ε': 0xe3,
	'µ': 0xe4,
	'μ': 0xe4,
	'σ': 0xe5,
	'ρ': 0xe6,
	'√': 0xe8,
	'¢': 0xec,
	'ñ': 0xee,
	'ö': 0xef,
	'θ': 0xf2,
	'∞': 0xf3,
	'Ω': 0xf4,
	'ü': 0xf5,
	'Σ': 0xf6,
	'π': 0xf7,
	'÷': 0xfd,
	'█': 0xff,
}

// unknownChar replaces characters the ROM can't show.
const unknownChar = '?'

// ToROM converts UTF-8 text to A00 ROM character codes.
//
// Characters with a ROM glyph are mapped directly. Others are decomposed and
// stripped of accents, so "é" prints as "e". Anything left outside printable
// ASCII, plus '\' and '~' which the ROM replaces with ¥ and →, becomes '?'.
// Control characters are dropped.
func ToROM(s string) []byte {
	out := make([]byte, 0, len(s))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	for _, r := range s {
		if c, ok := romCodes[r]; ok {
			out = append(out, c)
			continue
		}
		if r < 0x80 {
			out = appendASCII(out, r)
			continue
		}
		d, _, err := transform.String(t, string(r))
		if err != nil || d == "" {
			out = append(out, unknownChar)
			continue
		}
		for _, dr := range d {
			if dr >= 0x80 {
				out = append(out, unknownChar)
				break
			}
			out = appendASCII(out, dr)
		}
	}
	return out
}

func appendASCII(out []byte, r rune) []byte {
	switch {
	case r < 0x20 || r == 0x7f:
		return out
	case r == '\\' || r == '~':
		return append(out, unknownChar)
	}
	return append(out, byte(r))
}
