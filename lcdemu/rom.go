// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdemu

// romRunes holds the A00 ROM glyphs above 0x7f that have a close Unicode
// equivalent, plus the two ASCII positions the ROM redefines.
var romRunes = map[byte]rune{
	0x5c: '¥',
	0x7e: '→',
	0x7f: '←',
	0xa1: '。',
	0xa2: '「',
	0xa3: '」',
	0xa4: '、',
	0xa5: '·',
	0xdf: '°',
	0xe0: 'α',
	0xe1: 'ä',
	0xe2: 'β',
	0xe3: 'ε',
	0xe4: 'µ',
	0xe5: 'σ',
	0xe6: 'ρ',
	0xe8: '√',
	0xec: '¢',
	0xee: 'ñ',
	0xef: 'ö',
	0xf2: 'θ',
	0xf3: '∞',
	0xf4: 'Ω',
	0xf5: 'ü',
	0xf6: 'Σ',
	0xf7: 'π',
	0xfd: '÷',
	0xff: '█',
}

// Rune returns the Unicode character closest to ROM code c. CGRAM codes 0 to
// 15 return ① to ⑧ for their slot; codes without a glyph return '▯'.
func Rune(c byte) rune {
	switch {
	case c < 0x10:
		return '①' + rune(c&7)
	case c < 0x20:
		return '▯'
	}
	if r, ok := romRunes[c]; ok {
		return r
	}
	if c < 0x80 {
		return rune(c)
	}
	return '▯'
}
