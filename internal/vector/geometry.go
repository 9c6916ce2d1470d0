/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry and transforms for resolution-independent overlay math.
// Float values use float32 for compactness and to align with many UI libs.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float32 }

// Size is a width/height pair.
type Size struct{ W, H float32 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float32
	W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Empty reports whether the rect has no usable area. An empty rect means the
// base image has not been measured yet and all coordinate mapping is disabled.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Pt) float32 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return float32(math.Hypot(dx, dy))
}

// AngleDeg returns the angle of the vector from center to p, in degrees.
// 0 points along +X (3 o'clock), 90 along +Y (screen-down, 6 o'clock).
func AngleDeg(center, p Pt) float32 {
	return float32(math.Atan2(float64(p.Y-center.Y), float64(p.X-center.X)) * 180 / math.Pi)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeDeg maps an accumulated rotation into [0, 360). Stored rotations
// are kept raw; this is for display boundaries only.
func NormalizeDeg(deg float32) float32 {
	m := float32(math.Mod(float64(deg), 360))
	if m < 0 {
		m += 360
	}
	return m
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float32 }

var Identity = Affine2D{A: 1, D: 1}

func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

func Translate(tx, ty float32) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float32) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float32) Affine2D {
	c := float32(math.Cos(float64(rad)))
	s := float32(math.Sin(float64(rad)))
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// OverlayTransform builds the render transform for a text overlay anchored at
// its visual center: translate to the anchor point, then rotate, then scale.
// The order is fixed; swapping rotate/scale changes the visual result.
func OverlayTransform(anchor Pt, rotationDeg, scale float32) Affine2D {
	rad := rotationDeg * float32(math.Pi) / 180
	return Translate(anchor.X, anchor.Y).Mul(Rotate(rad)).Mul(Scale(scale, scale))
}

// CenterBox returns the rect of a w×h box whose center sits at anchor, the
// (-50%, -50%) translation that makes rotation and scale pivot on the center.
func CenterBox(anchor Pt, w, h float32) Rect {
	return Rect{X: anchor.X - w/2, Y: anchor.Y - h/2, W: w, H: h}
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float32, places int) float32 {
	if places < 0 {
		return v
	}
	pow := float32(math.Pow(10, float64(places)))
	return float32(math.Round(float64(v*pow))) / pow
}
