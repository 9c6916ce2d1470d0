/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history provides the bounded undo/redo stack of an editing session.
// Snapshots are full deep copies of the overlay collection, not diffs; with
// fewer than ten overlays per session that is intentionally simple.
package history

import (
	"sync"

	"overlayedit/internal/overlay"
)

// DefaultDepth caps the past stack; the oldest snapshot is evicted first.
const DefaultDepth = 20

// Manager holds the past and future snapshot stacks. The caller passes the
// current collection on every operation so the manager never has to observe
// live state. It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	depth  int
	past   []overlay.Collection
	future []overlay.Collection
}

// NewManager returns a manager capped at depth entries (DefaultDepth if <= 0).
func NewManager(depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{depth: depth}
}

// Push records the pre-edit state: append current to past, trim to the most
// recent depth entries, and drop the entire redo lineage.
func (m *Manager) Push(current overlay.Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = append(m.past, current.Clone())
	if n := len(m.past) - m.depth; n > 0 {
		m.past = append([]overlay.Collection{}, m.past[n:]...)
	}
	m.future = nil
}

// Undo pops the most recent past entry and returns it as the new current
// state, parking current at the front of future. Reports ok=false at the
// boundary (nothing to undo) without mutating anything.
func (m *Manager) Undo(current overlay.Collection) (overlay.Collection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.past)
	if n == 0 {
		return nil, false
	}
	prev := m.past[n-1]
	m.past = m.past[:n-1]
	m.future = append([]overlay.Collection{current.Clone()}, m.future...)
	return prev, true
}

// Redo pops the first future entry and returns it as the new current state,
// pushing current back onto past. Reports ok=false at the boundary.
func (m *Manager) Redo(current overlay.Collection) (overlay.Collection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.future) == 0 {
		return nil, false
	}
	next := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, current.Clone())
	return next, true
}

// CanUndo reports whether the past stack is non-empty.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past) > 0
}

// CanRedo reports whether the future stack is non-empty.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future) > 0
}

// Depths returns the current stack sizes for diagnostics.
func (m *Manager) Depths() (past, future int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past), len(m.future)
}

// Clear drops both stacks; called when the session closes.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.past = nil
	m.future = nil
}
