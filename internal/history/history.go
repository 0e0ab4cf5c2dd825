// Package history keeps a bounded undo/redo sequence of full working-buffer
// snapshots.
package history

import (
	"image"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 20

// Manager stores snapshots in creation order with a cursor on the state the
// working buffer currently shows. The cursor is -1 only while empty.
type Manager struct {
	states   []*image.RGBA
	cursor   int
	capacity int
}

// New returns an empty Manager. A capacity below 1 selects DefaultCapacity.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{cursor: -1, capacity: capacity}
}

// Snapshot records a copy of buf after the cursor. Any redo branch is
// discarded first; if the capacity is exceeded the oldest snapshot is
// evicted. The cursor always ends on the newest snapshot.
func (m *Manager) Snapshot(buf *image.RGBA) {
	if m.cursor < len(m.states)-1 {
		for i := m.cursor + 1; i < len(m.states); i++ {
			m.states[i] = nil
		}
		m.states = m.states[:m.cursor+1]
	}
	snap := image.NewRGBA(buf.Rect)
	copy(snap.Pix, buf.Pix)
	m.states = append(m.states, snap)
	if over := len(m.states) - m.capacity; over > 0 {
		kept := make([]*image.RGBA, m.capacity, m.capacity+1)
		copy(kept, m.states[over:])
		m.states = kept
	}
	m.cursor = len(m.states) - 1
}

// Undo steps the cursor back and copies that snapshot into dst. It reports
// false and leaves dst alone when already at the oldest snapshot.
func (m *Manager) Undo(dst *image.RGBA) bool {
	if !m.CanUndo() {
		return false
	}
	m.cursor--
	copy(dst.Pix, m.states[m.cursor].Pix)
	return true
}

// Redo steps the cursor forward and copies that snapshot into dst. It reports
// false when already at the newest snapshot.
func (m *Manager) Redo(dst *image.RGBA) bool {
	if !m.CanRedo() {
		return false
	}
	m.cursor++
	copy(dst.Pix, m.states[m.cursor].Pix)
	return true
}

// CanUndo reports whether an older snapshot exists.
func (m *Manager) CanUndo() bool { return m.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.states)-1 }

// Len returns the number of retained snapshots.
func (m *Manager) Len() int { return len(m.states) }

// Cursor returns the index of the current snapshot, or -1.
func (m *Manager) Cursor() int { return m.cursor }

// Capacity returns the maximum number of retained snapshots.
func (m *Manager) Capacity() int { return m.capacity }

// At returns the snapshot at index i. Callers must not modify it.
func (m *Manager) At(i int) *image.RGBA { return m.states[i] }

// Clear drops every snapshot.
func (m *Manager) Clear() {
	m.states = nil
	m.cursor = -1
}
