/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package session composes the overlay collection, coordinate mapper, gesture
// controller and history manager into one modal editing session with a
// single-shot asynchronous result.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"overlayedit/internal/baseimage"
	"overlayedit/internal/gesture"
	"overlayedit/internal/history"
	applog "overlayedit/internal/log"
	"overlayedit/internal/overlay"
	"overlayedit/internal/telemetry"
	"overlayedit/internal/viewport"
)

// State is the session lifecycle: Closed -> Open -> {Cancelled, Committed} -> Closed.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateCancelled
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCancelled:
		return "cancelled"
	case StateCommitted:
		return "committed"
	default:
		return "closed"
	}
}

// Result is delivered exactly once on commit. Text carries the reduced
// payload; Overlays the full final collection for callers that re-render.
type Result struct {
	Text     overlay.TextContent
	Overlays overlay.Collection
}

// ErrSessionOpen is returned by Open when another session is still open.
var ErrSessionOpen = errors.New("session: another editing session is already open")

var (
	activeMu sync.Mutex
	active   *Session
)

// Session owns all transient editing state. All mutating methods must be
// called from the interaction goroutine; Wait may be called from any.
type Session struct {
	image    baseimage.Ref
	overlays overlay.Collection
	mapper   *viewport.Mapper
	hist     *history.Manager
	gest     *gesture.Controller

	state  State
	once   sync.Once
	done   chan struct{}
	result *Result
	log    *slog.Logger
}

// Open starts a new editing session over img and layout. Only one session may
// be open at a time; a second Open fails with ErrSessionOpen. An empty layout
// is valid and opens with zero overlays.
func Open(img baseimage.Ref, layout overlay.Layout) (*Session, error) {
	return OpenWithDepth(img, layout, history.DefaultDepth)
}

// OpenWithDepth opens a session with a configured undo depth.
func OpenWithDepth(img baseimage.Ref, layout overlay.Layout, depth int) (*Session, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		return nil, ErrSessionOpen
	}

	s := &Session{
		image:  img,
		mapper: viewport.New(),
		hist:   history.NewManager(depth),
		state:  StateOpen,
		done:   make(chan struct{}),
		log:    applog.WithComponent("session"),
	}
	s.overlays = overlay.FromLayout(layout)
	s.gest = gesture.NewController(&s.overlays, s.mapper, func(pre overlay.Collection) {
		s.hist.Push(pre)
		telemetry.Event(telemetry.EventGestureComplete, nil)
	})

	active = s
	s.log.Info("session opened", slog.Int("overlays", len(s.overlays)), slog.String("image", img.Path))
	telemetry.Event(telemetry.EventSessionOpen, map[string]any{"overlays": len(s.overlays)})
	return s, nil
}

// State reports the current lifecycle state.
func (s *Session) State() State { return s.state }

// Overlays exposes the live collection. Callers must not retain the slice
// across mutations.
func (s *Session) Overlays() overlay.Collection { return s.overlays }

// Gestures exposes the gesture controller for pointer event routing.
func (s *Session) Gestures() *gesture.Controller { return s.gest }

// Mapper exposes the coordinate mapper.
func (s *Session) Mapper() *viewport.Mapper { return s.mapper }

// Image returns the base image reference the session was opened with.
func (s *Session) Image() baseimage.Ref { return s.image }

// Resize recomputes the rendered image rectangle for a new viewport size.
// A gesture in progress keeps using the rectangle captured at its start.
func (s *Session) Resize(viewW, viewH float32) {
	if s.state != StateOpen || !s.image.Valid() {
		return
	}
	s.mapper.Fit(float32(s.image.Width), float32(s.image.Height), viewW, viewH)
}

// Undo steps back one completed edit. A no-op at the history floor.
func (s *Session) Undo() bool {
	if s.state != StateOpen {
		return false
	}
	got, ok := s.hist.Undo(s.overlays)
	if !ok {
		return false
	}
	s.overlays = got
	s.reconcileSelection()
	return true
}

// Redo re-applies the most recently undone edit. A no-op with no redo lineage.
func (s *Session) Redo() bool {
	if s.state != StateOpen {
		return false
	}
	got, ok := s.hist.Redo(s.overlays)
	if !ok {
		return false
	}
	s.overlays = got
	s.reconcileSelection()
	return true
}

// reconcileSelection drops the selection when the selected overlay no longer
// exists in the current collection (after undo/redo or delete).
func (s *Session) reconcileSelection() {
	if id := s.gest.SelectedID(); id != "" {
		if _, ok := s.overlays.Get(id); !ok {
			s.gest.Select("")
		}
	}
}

// DeleteSelected removes the selected overlay, pushing one history snapshot
// of the state before the removal. Inert when nothing is selected.
func (s *Session) DeleteSelected() bool {
	if s.state != StateOpen {
		return false
	}
	id := s.gest.SelectedID()
	if id == "" {
		return false
	}
	s.hist.Push(s.overlays)
	if !s.overlays.Remove(id) {
		return false
	}
	s.gest.Select("")
	s.log.Debug("overlay deleted", slog.String("id", id))
	return true
}

// BeginTextEdit opens the nested text-edit mode for id, suspending gestures
// for that overlay until SaveTextEdit or CancelTextEdit.
func (s *Session) BeginTextEdit(id string) bool {
	if s.state != StateOpen {
		return false
	}
	return s.gest.BeginTextEdit(id)
}

// SaveTextEdit writes the edited text back, pushing one history snapshot of
// the state before the change. Saving for an overlay that was deleted
// mid-edit is a silent no-op.
func (s *Session) SaveTextEdit(id, text string) {
	if s.state != StateOpen {
		return
	}
	defer s.gest.EndTextEdit()
	o, ok := s.overlays.Get(id)
	if !ok {
		return
	}
	if o.Text == text {
		return
	}
	s.hist.Push(s.overlays)
	o.Text = text
}

// CancelTextEdit abandons the nested text edit without touching history.
func (s *Session) CancelTextEdit() { s.gest.EndTextEdit() }

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Commit resolves the session with the reduced text payload and the final
// collection. Only the first of Commit/Cancel takes effect.
func (s *Session) Commit() {
	s.resolve(StateCommitted, &Result{
		Text:     s.overlays.TextContent(),
		Overlays: s.overlays.Clone(),
	})
}

// Cancel resolves the session with no result; all edits are discarded.
func (s *Session) Cancel() {
	s.resolve(StateCancelled, nil)
}

func (s *Session) resolve(st State, r *Result) {
	s.once.Do(func() {
		// terminate any half-finished gesture without a history write
		s.gest.Reset()
		s.state = st
		s.result = r
		s.hist.Clear()
		close(s.done)

		activeMu.Lock()
		if active == s {
			active = nil
		}
		activeMu.Unlock()

		s.log.Info("session resolved", slog.String("state", st.String()))
		switch st {
		case StateCommitted:
			telemetry.Event(telemetry.EventSessionCommit, map[string]any{"overlays": len(s.overlays)})
		case StateCancelled:
			telemetry.Event(telemetry.EventSessionCancel, nil)
		}
	})
}

// Wait blocks until the session resolves. A nil Result means cancellation.
func (s *Session) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return s.result, nil
	}
}

// Edit runs one full session to completion: open, hand the session to run
// for the interactive phase, then wait for the single-shot result. run is
// expected to drive the session to Commit or Cancel before returning.
func Edit(ctx context.Context, img baseimage.Ref, layout overlay.Layout, run func(*Session)) (*Result, error) {
	s, err := Open(img, layout)
	if err != nil {
		return nil, err
	}
	run(s)
	return s.Wait(ctx)
}

// Summary renders a short human-readable description of a result, used by
// the command line front end.
func (r *Result) Summary() string {
	if r == nil {
		return "cancelled (no result)"
	}
	var b strings.Builder
	b.WriteString("committed")
	if r.Text.Headline != "" {
		b.WriteString(" headline=" + quote(r.Text.Headline))
	}
	if r.Text.Subheadline != "" {
		b.WriteString(" subheadline=" + quote(r.Text.Subheadline))
	}
	if r.Text.CTA != "" {
		b.WriteString(" cta=" + quote(r.Text.CTA))
	}
	return b.String()
}

func quote(s string) string {
	if len(s) > 24 {
		return "\"" + s[:21] + "...\""
	}
	return "\"" + s + "\""
}
