// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdemu

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Geometry of one character cell in a snapshot, in image pixels.
const (
	dotSize    = 3
	cellWidth  = 6 * dotSize
	cellHeight = 9 * dotSize
	border     = 4 * dotSize
)

// Snapshot renders what the display shows. CGRAM glyphs are drawn dot by
// dot, ROM characters with a 7x13 bitmap font.
func (b *Bus) Snapshot() image.Image {
	return b.render().Image()
}

// EncodePNG writes Snapshot to w as a PNG.
func (b *Bus) EncodePNG(w io.Writer) error {
	return b.render().EncodePNG(w)
}

// SavePNG writes Snapshot to the named file.
func (b *Bus) SavePNG(path string) error {
	return b.render().SavePNG(path)
}

func (b *Bus) render() *gg.Context {
	b.mu.Lock()
	codes := b.codes()
	cgram := b.cgram
	backlit := b.pins&pinBacklight != 0
	on := b.displayOn
	b.mu.Unlock()

	w := 2*border + b.cols*cellWidth
	h := 2*border + b.rows*cellHeight
	dc := gg.NewContext(w, h)
	if backlit {
		dc.SetColor(backlitColor)
	} else {
		dc.SetColor(darkColor)
	}
	dc.Clear()
	if !on {
		return dc
	}
	dc.SetFontFace(basicfont.Face7x13)
	for r, row := range codes {
		for c, code := range row {
			x := float64(border + c*cellWidth)
			y := float64(border + r*cellHeight)
			// Unlit dots.
			dc.SetRGBA255(0, 0, 0, 0x18)
			dc.DrawRectangle(x, y, 5*dotSize, 8*dotSize)
			dc.Fill()
			dc.SetRGB255(0x10, 0x18, 0x08)
			if code < 0x10 {
				slot := int(code&7) * 8
				for py, bits := range cgram[slot : slot+8] {
					for px := range 5 {
						if bits&(0x10>>px) != 0 {
							dc.DrawRectangle(x+float64(px*dotSize), y+float64(py*dotSize), dotSize-0.5, dotSize-0.5)
						}
					}
				}
				dc.Fill()
				continue
			}
			if code == ' ' {
				continue
			}
			dc.DrawStringAnchored(string(Rune(code)), x+2.5*dotSize, y+4*dotSize, 0.5, 0.5)
		}
	}
	return dc
}
