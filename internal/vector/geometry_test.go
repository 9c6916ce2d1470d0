/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func almostEq(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Clamp(-5) = %v", got)
	}
	if got := Clamp(150, 0, 100); got != 100 {
		t.Errorf("Clamp(150) = %v", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Clamp(42) = %v", got)
	}
}

func TestAngleDeg(t *testing.T) {
	c := Pt{100, 100}
	// 12 o'clock is straight up in screen coords (-Y)
	if got := AngleDeg(c, Pt{100, 50}); !almostEq(got, -90) {
		t.Errorf("12 o'clock angle = %v, want -90", got)
	}
	// 3 o'clock
	if got := AngleDeg(c, Pt{150, 100}); !almostEq(got, 0) {
		t.Errorf("3 o'clock angle = %v, want 0", got)
	}
	// moving 12 -> 3 o'clock is a +90 sweep
	d := AngleDeg(c, Pt{150, 100}) - AngleDeg(c, Pt{100, 50})
	if !almostEq(d, 90) {
		t.Errorf("12->3 sweep = %v, want 90", d)
	}
}

func TestDist(t *testing.T) {
	if got := Dist(Pt{0, 0}, Pt{3, 4}); !almostEq(got, 5) {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestNormalizeDeg(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{0, 0}, {360, 0}, {450, 90}, {-90, 270}, {725, 5},
	}
	for _, c := range cases {
		if got := NormalizeDeg(c.in); !almostEq(got, c.want) {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

// TestOverlayTransformOrder pins the translate->rotate->scale composition.
// With rotation 90 and scale 2, a local +X unit vector must land on +Y scaled
// by 2; a scale-then-rotate composition would differ once translation is
// involved with non-uniform intermediate states.
func TestOverlayTransformOrder(t *testing.T) {
	m := OverlayTransform(Pt{10, 10}, 90, 2)
	p := m.Apply(Pt{1, 0})
	if !almostEq(p.X, 10) || !almostEq(p.Y, 12) {
		t.Fatalf("transform applied to (1,0) = %+v, want (10,12)", p)
	}
	// anchor itself is a fixed point
	o := m.Apply(Pt{0, 0})
	if !almostEq(o.X, 10) || !almostEq(o.Y, 10) {
		t.Fatalf("anchor moved: %+v", o)
	}
}

func TestCenterBox(t *testing.T) {
	b := CenterBox(Pt{50, 50}, 20, 10)
	if b.X != 40 || b.Y != 45 || b.W != 20 || b.H != 10 {
		t.Fatalf("CenterBox = %+v", b)
	}
	if c := b.Center(); c.X != 50 || c.Y != 50 {
		t.Fatalf("center = %+v", c)
	}
}

func TestRectEmptyAndContains(t *testing.T) {
	if !(Rect{}).Empty() {
		t.Errorf("zero rect must be empty")
	}
	r := R(10, 10, 100, 50)
	if r.Empty() {
		t.Errorf("non-zero rect reported empty")
	}
	if !r.Contains(Pt{10, 10}) || !r.Contains(Pt{110, 60}) {
		t.Errorf("edge points must be contained")
	}
	if r.Contains(Pt{9, 10}) {
		t.Errorf("outside point contained")
	}
}
