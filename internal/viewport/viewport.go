/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport maps between canvas-percentage coordinates and screen
// pixels. Overlay positions are percentages of the rendered base image's own
// bounding box, not the surrounding container, so the mapper tracks the image
// rectangle produced by a letterbox/pillarbox "contain" fit.
package viewport

import "overlayedit/internal/vector"

// Mapper holds the current on-screen rectangle of the rendered base image.
// Until the image has been measured the rectangle is empty and every
// conversion reports ok=false instead of dividing by zero.
type Mapper struct {
	rect vector.Rect
}

// New returns a mapper in the disabled (unmeasured) state.
func New() *Mapper { return &Mapper{} }

// SetRect installs the image rectangle directly, in screen pixels.
func (m *Mapper) SetRect(r vector.Rect) {
	if r.Empty() {
		m.rect = vector.Rect{}
		return
	}
	m.rect = r
}

// Rect returns the current image rectangle. Gestures capture this once at
// gesture start so mid-gesture layout shifts never introduce jitter.
func (m *Mapper) Rect() vector.Rect { return m.rect }

// Valid reports whether conversions are currently possible.
func (m *Mapper) Valid() bool { return !m.rect.Empty() }

// Fit recomputes the image rectangle for an image of intrinsic size imgW×imgH
// rendered inside a viewW×viewH viewport with aspect-preserving "contain"
// semantics. Call it when the image finishes loading and on every viewport
// resize.
func (m *Mapper) Fit(imgW, imgH, viewW, viewH float32) {
	m.rect = FitRect(imgW, imgH, viewW, viewH)
}

// FitRect computes the letterboxed rectangle of an imgW×imgH image centered
// in a viewW×viewH viewport. Any non-positive dimension yields an empty rect.
func FitRect(imgW, imgH, viewW, viewH float32) vector.Rect {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return vector.Rect{}
	}
	scale := viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	w := imgW * scale
	h := imgH * scale
	return vector.Rect{X: (viewW - w) / 2, Y: (viewH - h) / 2, W: w, H: h}
}

// ScreenToCanvas converts a screen pixel position into canvas percentages.
func (m *Mapper) ScreenToCanvas(p vector.Pt) (x, y float64, ok bool) {
	return ScreenToCanvasIn(m.rect, p)
}

// CanvasToScreen converts canvas percentages into a screen pixel position.
func (m *Mapper) CanvasToScreen(x, y float64) (vector.Pt, bool) {
	return CanvasToScreenIn(m.rect, x, y)
}

// ScreenToCanvasIn converts against an explicit rectangle, typically one
// captured at gesture start.
func ScreenToCanvasIn(r vector.Rect, p vector.Pt) (x, y float64, ok bool) {
	if r.Empty() {
		return 0, 0, false
	}
	x = float64(p.X-r.X) / float64(r.W) * 100
	y = float64(p.Y-r.Y) / float64(r.H) * 100
	return x, y, true
}

// CanvasToScreenIn is the inverse of ScreenToCanvasIn.
func CanvasToScreenIn(r vector.Rect, x, y float64) (vector.Pt, bool) {
	if r.Empty() {
		return vector.Pt{}, false
	}
	return vector.Pt{
		X: r.X + float32(x/100)*r.W,
		Y: r.Y + float32(y/100)*r.H,
	}, true
}

// DeltaToCanvasIn converts a pixel delta into a percentage delta against an
// explicit rectangle. Used by drags, which add the delta to the overlay's
// gesture-start position.
func DeltaToCanvasIn(r vector.Rect, dx, dy float32) (px, py float64, ok bool) {
	if r.Empty() {
		return 0, 0, false
	}
	return float64(dx) / float64(r.W) * 100, float64(dy) / float64(r.H) * 100, true
}
