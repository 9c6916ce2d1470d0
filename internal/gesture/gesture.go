/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw pointer events into drag/scale/rotate transforms
// on the selected overlay. Each overlay's interaction is a small state
// machine: Idle -> Dragging|Scaling|Rotating -> Idle, and only the selected
// overlay may leave Idle.
package gesture

import (
	"log/slog"

	applog "overlayedit/internal/log"
	"overlayedit/internal/overlay"
	"overlayedit/internal/vector"
	"overlayedit/internal/viewport"
)

// Mode is the interaction state of the controller.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeScaling
	ModeRotating
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging"
	case ModeScaling:
		return "scaling"
	case ModeRotating:
		return "rotating"
	default:
		return "idle"
	}
}

// Handle identifies which grip started a scale/rotate gesture. The four
// corners all produce the same uniform scaling; the grabbed corner is
// recorded but does not change the math.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
	HandleRotate
)

// Controller routes pointer events for one overlay collection. All calls are
// expected from the single interaction thread; event handling is strictly
// sequential per overlay because input capture is exclusive to the selection.
type Controller struct {
	overlays *overlay.Collection
	mapper   *viewport.Mapper

	selected  string
	editingID string // overlay with an open text-edit dialog; gestures suspended

	mode     Mode
	activeID string
	handle   Handle

	// captured at gesture start; the rect is never re-measured mid-gesture
	rect       vector.Rect
	startPt    vector.Pt
	startX     float64
	startY     float64
	startScale float64
	startRot   float64
	center     vector.Pt
	startDist  float32
	startAngle float32
	preState   overlay.Collection

	// onComplete receives the pre-gesture snapshot exactly once per
	// completed gesture; intermediate moves never reach history.
	onComplete func(pre overlay.Collection)

	log *slog.Logger
}

// NewController wires a controller to a live collection and mapper.
func NewController(overlays *overlay.Collection, m *viewport.Mapper, onComplete func(pre overlay.Collection)) *Controller {
	return &Controller{
		overlays:   overlays,
		mapper:     m,
		mode:       ModeIdle,
		onComplete: onComplete,
		log:        applog.WithComponent("gesture"),
	}
}

// SelectedID returns the currently selected overlay id, or "".
func (c *Controller) SelectedID() string { return c.selected }

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// ActiveID returns the overlay driving a non-Idle mode, or "".
func (c *Controller) ActiveID() string { return c.activeID }

// Select sets the selection directly (list UI, post-delete cleanup). An
// empty id clears it. Selecting while a gesture runs terminates the gesture.
func (c *Controller) Select(id string) {
	if c.mode != ModeIdle && id != c.activeID {
		c.finish()
	}
	c.selected = id
}

// PointerDown handles a press on an overlay body. A press on an unselected
// overlay performs only selection; a press on the already-selected overlay
// begins a drag. Returns true when a drag actually started.
func (c *Controller) PointerDown(id string, pt vector.Pt) bool {
	if c.mode != ModeIdle {
		return false
	}
	if c.editingID != "" && c.editingID == id {
		return false
	}
	if id != c.selected {
		// two-step: first press selects, never moves
		c.selected = id
		c.log.Debug("overlay selected", slog.String("overlay", id))
		return false
	}
	o, ok := c.overlays.Get(id)
	if !ok || !c.mapper.Valid() {
		return false
	}
	c.beginCapture(o, pt, HandleNone)
	c.mode = ModeDragging
	return true
}

// HandleDown begins a scale gesture from a corner handle or a rotate gesture
// from the top-center handle. Handles exist only on the selected overlay.
func (c *Controller) HandleDown(h Handle, pt vector.Pt) bool {
	if c.mode != ModeIdle || h == HandleNone || c.selected == "" {
		return false
	}
	if c.editingID == c.selected {
		return false
	}
	o, ok := c.overlays.Get(c.selected)
	if !ok || !c.mapper.Valid() {
		return false
	}
	c.beginCapture(o, pt, h)
	if h == HandleRotate {
		c.startAngle = vector.AngleDeg(c.center, pt)
		c.mode = ModeRotating
		return true
	}
	c.startDist = vector.Dist(c.center, pt)
	if c.startDist == 0 {
		// pointer exactly on the center: no usable scale ratio
		c.preState = nil
		return false
	}
	c.mode = ModeScaling
	return true
}

func (c *Controller) beginCapture(o *overlay.Overlay, pt vector.Pt, h Handle) {
	c.rect = c.mapper.Rect()
	c.startPt = pt
	c.startX, c.startY = o.X, o.Y
	c.startScale = o.Scale
	c.startRot = o.Rotation
	c.center, _ = viewport.CanvasToScreenIn(c.rect, o.X, o.Y)
	c.handle = h
	c.activeID = o.ID
	c.preState = c.overlays.Clone()
}

// PointerMove applies the active gesture's transform. Moves while Idle are
// ignored.
func (c *Controller) PointerMove(pt vector.Pt) {
	o, ok := c.overlays.Get(c.activeID)
	if !ok {
		return
	}
	switch c.mode {
	case ModeDragging:
		dx, dy, ok := viewport.DeltaToCanvasIn(c.rect, pt.X-c.startPt.X, pt.Y-c.startPt.Y)
		if !ok {
			return
		}
		o.X = c.startX + dx
		o.Y = c.startY + dy
		o.ClampTransform()
	case ModeScaling:
		d := vector.Dist(c.center, pt)
		o.Scale = c.startScale * float64(d/c.startDist)
		o.ClampTransform()
	case ModeRotating:
		a := vector.AngleDeg(c.center, pt)
		o.Rotation = c.startRot + float64(a-c.startAngle)
	}
}

// PointerUp terminates the active gesture: exactly one history snapshot,
// back to Idle.
func (c *Controller) PointerUp() { c.finish() }

// PointerCancel terminates identically to PointerUp.
func (c *Controller) PointerCancel() { c.finish() }

// PointerLeave handles the pointer leaving the element while still pressed;
// it terminates identically to PointerUp.
func (c *Controller) PointerLeave() { c.finish() }

func (c *Controller) finish() {
	if c.mode == ModeIdle {
		return
	}
	pre := c.preState
	c.log.Debug("gesture complete",
		slog.String("overlay", c.activeID),
		slog.String("mode", c.mode.String()))
	c.mode = ModeIdle
	c.activeID = ""
	c.handle = HandleNone
	c.preState = nil
	if c.onComplete != nil && pre != nil {
		c.onComplete(pre)
	}
}

// Reset abandons any in-flight gesture without a history write and clears
// the selection. Used when the session closes mid-gesture.
func (c *Controller) Reset() {
	c.mode = ModeIdle
	c.activeID = ""
	c.handle = HandleNone
	c.preState = nil
	c.selected = ""
	c.editingID = ""
}

// BeginTextEdit suspends gesture handling for the overlay while its nested
// text-edit dialog is open. Fails if a gesture is in flight.
func (c *Controller) BeginTextEdit(id string) bool {
	if c.mode != ModeIdle {
		return false
	}
	c.editingID = id
	return true
}

// EndTextEdit resumes gesture handling after the dialog closes.
func (c *Controller) EndTextEdit() { c.editingID = "" }

// EditingID returns the overlay whose text-edit dialog is open, or "".
func (c *Controller) EditingID() string { return c.editingID }
