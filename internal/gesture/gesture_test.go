/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"math"
	"testing"

	"overlayedit/internal/overlay"
	"overlayedit/internal/vector"
	"overlayedit/internal/viewport"
)

type fixture struct {
	overlays  overlay.Collection
	mapper    *viewport.Mapper
	ctrl      *Controller
	completes []overlay.Collection
}

// newFixture renders a 400x300 image rect with one overlay centered at
// (50,50), i.e. screen (200,150).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		overlays: overlay.Collection{
			{ID: "a", Kind: overlay.KindHeadline, Text: "A", X: 50, Y: 50, Scale: 1},
			{ID: "b", Kind: overlay.KindCTA, Text: "B", X: 10, Y: 90, Scale: 1},
		},
		mapper: viewport.New(),
	}
	f.mapper.SetRect(vector.R(0, 0, 400, 300))
	f.ctrl = NewController(&f.overlays, f.mapper, func(pre overlay.Collection) {
		f.completes = append(f.completes, pre)
	})
	return f
}

func (f *fixture) get(id string) *overlay.Overlay {
	o, _ := f.overlays.Get(id)
	return o
}

func TestSelectThenDragTwoStep(t *testing.T) {
	f := newFixture(t)
	// first press selects only; the overlay must not move
	if began := f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150}); began {
		t.Fatalf("first press on unselected overlay must not begin a drag")
	}
	if f.ctrl.SelectedID() != "a" || f.ctrl.Mode() != ModeIdle {
		t.Fatalf("selection state: id=%q mode=%v", f.ctrl.SelectedID(), f.ctrl.Mode())
	}
	f.ctrl.PointerMove(vector.Pt{X: 300, Y: 150})
	if o := f.get("a"); o.X != 50 {
		t.Fatalf("overlay moved without a drag: x=%v", o.X)
	}
	// second press begins the drag
	if began := f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150}); !began {
		t.Fatalf("press on selected overlay must begin a drag")
	}
	if f.ctrl.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging", f.ctrl.Mode())
	}
}

func TestSelectingAnotherOverlayDeselects(t *testing.T) {
	f := newFixture(t)
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	f.ctrl.PointerDown("b", vector.Pt{X: 40, Y: 270})
	if f.ctrl.SelectedID() != "b" {
		t.Fatalf("selected = %q, want b", f.ctrl.SelectedID())
	}
}

// 400px-wide image, overlay at x=50, pointer travels +200px horizontally:
// x = 50 + (200/400)*100 = 100.
func TestDragDeltaScenario(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	f.ctrl.PointerMove(vector.Pt{X: 400, Y: 150})
	o := f.get("a")
	if o.X != 100 || o.Y != 50 {
		t.Fatalf("drag result (%v,%v), want (100,50)", o.X, o.Y)
	}
	// further travel clamps at the canvas edge
	f.ctrl.PointerMove(vector.Pt{X: 4000, Y: -4000})
	if o.X != 100 || o.Y != 0 {
		t.Fatalf("clamped drag result (%v,%v), want (100,0)", o.X, o.Y)
	}
	f.ctrl.PointerUp()
}

func TestDragAlwaysClampedToBounds(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	for _, pt := range []vector.Pt{{X: -900, Y: 40}, {X: 6000, Y: 6000}, {X: 12, Y: -77}, {X: 199, Y: 151}} {
		f.ctrl.PointerMove(pt)
		o := f.get("a")
		if o.X < 0 || o.X > 100 || o.Y < 0 || o.Y > 100 {
			t.Fatalf("position escaped bounds at %v: (%v,%v)", pt, o.X, o.Y)
		}
	}
	f.ctrl.PointerUp()
}

func TestScaleUniformFromEveryCorner(t *testing.T) {
	for _, h := range []Handle{HandleNW, HandleNE, HandleSW, HandleSE} {
		f := newFixture(t)
		f.ctrl.Select("a")
		// center is (200,150); start 100px away, move to 150px: ratio 1.5
		if !f.ctrl.HandleDown(h, vector.Pt{X: 300, Y: 150}) {
			t.Fatalf("handle %v: scale gesture did not start", h)
		}
		f.ctrl.PointerMove(vector.Pt{X: 350, Y: 150})
		if o := f.get("a"); math.Abs(o.Scale-1.5) > 1e-9 {
			t.Fatalf("handle %v: scale = %v, want 1.5", h, o.Scale)
		}
		f.ctrl.PointerUp()
	}
}

func TestScaleClampedToBounds(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.HandleDown(HandleSE, vector.Pt{X: 300, Y: 150})
	f.ctrl.PointerMove(vector.Pt{X: 3000, Y: 150})
	if o := f.get("a"); o.Scale != overlay.MaxScale {
		t.Fatalf("scale ceiling: %v", o.Scale)
	}
	f.ctrl.PointerMove(vector.Pt{X: 201, Y: 150})
	if o := f.get("a"); o.Scale != overlay.MinScale {
		t.Fatalf("scale floor: %v", o.Scale)
	}
	f.ctrl.PointerUp()
}

// Pointer sweeping from the overlay's 12 o'clock to its 3 o'clock position
// adds +90 degrees.
func TestRotateQuarterTurn(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	if !f.ctrl.HandleDown(HandleRotate, vector.Pt{X: 200, Y: 100}) {
		t.Fatalf("rotate gesture did not start")
	}
	f.ctrl.PointerMove(vector.Pt{X: 250, Y: 150})
	if o := f.get("a"); math.Abs(o.Rotation-90) > 1e-4 {
		t.Fatalf("rotation = %v, want 90", o.Rotation)
	}
	f.ctrl.PointerUp()
}

func TestRotationAccumulatesWithoutNormalization(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.get("a").Rotation = 700
	f.ctrl.HandleDown(HandleRotate, vector.Pt{X: 200, Y: 100})
	f.ctrl.PointerMove(vector.Pt{X: 250, Y: 150})
	if o := f.get("a"); math.Abs(o.Rotation-790) > 1e-4 {
		t.Fatalf("rotation = %v, want raw 790", o.Rotation)
	}
	f.ctrl.PointerUp()
}

func TestCompletionWritesExactlyOneSnapshot(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	f.ctrl.PointerMove(vector.Pt{X: 210, Y: 150})
	f.ctrl.PointerMove(vector.Pt{X: 220, Y: 150})
	f.ctrl.PointerMove(vector.Pt{X: 230, Y: 150})
	if len(f.completes) != 0 {
		t.Fatalf("moves must never write history, got %d writes", len(f.completes))
	}
	f.ctrl.PointerUp()
	if len(f.completes) != 1 {
		t.Fatalf("completion writes = %d, want 1", len(f.completes))
	}
	// snapshot carries the pre-gesture state
	if f.completes[0][0].X != 50 {
		t.Fatalf("snapshot x = %v, want pre-gesture 50", f.completes[0][0].X)
	}
	// a second up is inert
	f.ctrl.PointerUp()
	if len(f.completes) != 1 {
		t.Fatalf("idle up must not write history")
	}
}

func TestCancelAndLeaveTerminateLikeUp(t *testing.T) {
	for name, end := range map[string]func(c *Controller){
		"cancel": func(c *Controller) { c.PointerCancel() },
		"leave":  func(c *Controller) { c.PointerLeave() },
	} {
		f := newFixture(t)
		f.ctrl.Select("a")
		f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
		f.ctrl.PointerMove(vector.Pt{X: 300, Y: 150})
		end(f.ctrl)
		if f.ctrl.Mode() != ModeIdle {
			t.Errorf("%s: mode = %v, want idle", name, f.ctrl.Mode())
		}
		if len(f.completes) != 1 {
			t.Errorf("%s: completion writes = %d, want 1", name, len(f.completes))
		}
		// the transform applied before termination sticks
		if o := f.get("a"); o.X != 75 {
			t.Errorf("%s: x = %v, want 75", name, o.X)
		}
	}
}

func TestUnmeasuredRectDisablesGestures(t *testing.T) {
	f := newFixture(t)
	f.mapper.SetRect(vector.Rect{})
	f.ctrl.Select("a")
	if f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150}) {
		t.Fatalf("drag must not start without a measured rect")
	}
	if f.ctrl.HandleDown(HandleSE, vector.Pt{X: 300, Y: 150}) {
		t.Fatalf("scale must not start without a measured rect")
	}
	if o := f.get("a"); o.X != 50 || o.Scale != 1 {
		t.Fatalf("overlay mutated while disabled: %+v", o)
	}
}

func TestRectCapturedAtGestureStart(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	// a resize mid-gesture must not affect the delta math
	f.mapper.SetRect(vector.R(0, 0, 4000, 3000))
	f.ctrl.PointerMove(vector.Pt{X: 400, Y: 150})
	if o := f.get("a"); o.X != 100 {
		t.Fatalf("x = %v, want 100 from the gesture-start rect", o.X)
	}
	f.ctrl.PointerUp()
}

func TestTextEditSuspendsGestures(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	if !f.ctrl.BeginTextEdit("a") {
		t.Fatalf("BeginTextEdit failed")
	}
	if f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150}) {
		t.Fatalf("drag must not start while the text dialog is open")
	}
	if f.ctrl.HandleDown(HandleRotate, vector.Pt{X: 200, Y: 100}) {
		t.Fatalf("rotate must not start while the text dialog is open")
	}
	f.ctrl.EndTextEdit()
	if !f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150}) {
		t.Fatalf("drag must resume after the dialog closes")
	}
	f.ctrl.PointerUp()
}

func TestOnlySelectedOverlayScales(t *testing.T) {
	f := newFixture(t)
	if f.ctrl.HandleDown(HandleSE, vector.Pt{X: 300, Y: 150}) {
		t.Fatalf("handles must not work with no selection")
	}
}

func TestResetAbandonsGestureWithoutSnapshot(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Select("a")
	f.ctrl.PointerDown("a", vector.Pt{X: 200, Y: 150})
	f.ctrl.Reset()
	if f.ctrl.Mode() != ModeIdle || f.ctrl.SelectedID() != "" {
		t.Fatalf("reset state: mode=%v sel=%q", f.ctrl.Mode(), f.ctrl.SelectedID())
	}
	if len(f.completes) != 0 {
		t.Fatalf("reset must not write history")
	}
}
