/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout estimates the rendered box of an overlay's text without
// a live canvas. Handle placement and hit tests use these deterministic
// extents; the UI backend may paint with a different engine.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"overlayedit/internal/overlay"
	"overlayedit/internal/vector"
)

// Measurer computes text extents with a fixed deterministic face. The basic
// 7x13 face is measured at its native size and scaled to the overlay's
// effective font size.
type Measurer struct {
	face   font.Face
	emPx   float32 // native line height of the face
	drawer *font.Drawer
}

func NewMeasurer() *Measurer {
	f := basicfont.Face7x13
	return &Measurer{
		face:   f,
		emPx:   float32(f.Metrics().Height.Round()),
		drawer: &font.Drawer{Face: f},
	}
}

// Box returns the estimated on-screen size of an overlay's text box inside
// the given image rect. The overlay's scale multiplies its base font size;
// MaxWidth (percent of canvas) bounds the line width and triggers wrapping.
// An empty rect or empty text yields a minimal grab target so a just-cleared
// overlay can still be selected.
func (m *Measurer) Box(o overlay.Overlay, rect vector.Rect) vector.Size {
	const minSide = 24
	if rect.Empty() {
		return vector.Size{W: minSide, H: minSide}
	}
	sizePx := float32(o.Style.FontSize * o.Scale)
	if sizePx <= 0 {
		sizePx = 16
	}
	ratio := sizePx / m.emPx

	maxW := float32(0)
	if o.Style.MaxWidth > 0 {
		maxW = float32(o.Style.MaxWidth/100) * rect.W
	}

	lineH := sizePx
	if o.Style.LineHeight > 0 {
		lineH = sizePx * float32(o.Style.LineHeight)
	}

	lines := m.wrap(o.Text, ratio, maxW)
	var w float32
	for _, lw := range lines {
		if lw > w {
			w = lw
		}
	}
	if ls := float32(o.Style.LetterSpacing); ls > 0 && len(o.Text) > 1 {
		w += ls * float32(len(o.Text)-1)
	}
	h := lineH * float32(len(lines))
	if w < minSide {
		w = minSide
	}
	if h < minSide {
		h = minSide
	}
	return vector.Size{W: w, H: h}
}

// wrap returns the scaled width of each laid-out line, breaking on spaces
// when a maximum width is set. A word wider than the limit gets its own line
// rather than being split.
func (m *Measurer) wrap(text string, ratio, maxW float32) []float32 {
	var widths []float32
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			widths = append(widths, 0)
			continue
		}
		cur := float32(0)
		space := m.advance(" ") * ratio
		for _, word := range words {
			ww := m.advance(word) * ratio
			if cur > 0 && maxW > 0 && cur+space+ww > maxW {
				widths = append(widths, cur)
				cur = ww
				continue
			}
			if cur > 0 {
				cur += space
			}
			cur += ww
		}
		widths = append(widths, cur)
	}
	return widths
}

func (m *Measurer) advance(s string) float32 {
	return float32(m.drawer.MeasureString(s).Round())
}
