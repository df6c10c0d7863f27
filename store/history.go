package store

import (
	"encoding/json"
	"fmt"

	"diagrid/diagram"
)

// History manages undo/redo as a bounded list of JSON snapshots of the
// shape collection.
type History struct {
	states  []string // JSON states
	current int      // Current position in history
	max     int      // Maximum number of states to keep
}

// NewHistory creates a history keeping at most max states. A non-positive
// max keeps 50.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		states:  make([]string, 0, max),
		current: -1,
		max:     max,
	}
}

// Save records a new state, discarding any redo tail.
func (h *History) Save(shapes []diagram.Shape) error {
	data, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("snapshot shapes: %w", err)
	}

	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, string(data))

	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
	return nil
}

// CanUndo returns true if an earlier state exists.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if an undone state can be restored.
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back one state and returns it, or nil if there is none.
func (h *History) Undo() ([]diagram.Shape, error) {
	if !h.CanUndo() {
		return nil, nil
	}
	h.current--
	return h.load(h.current)
}

// Redo steps forward one state and returns it, or nil if there is none.
func (h *History) Redo() ([]diagram.Shape, error) {
	if !h.CanRedo() {
		return nil, nil
	}
	h.current++
	return h.load(h.current)
}

func (h *History) load(i int) ([]diagram.Shape, error) {
	var shapes []diagram.Shape
	if err := json.Unmarshal([]byte(h.states[i]), &shapes); err != nil {
		return nil, fmt.Errorf("restore state %d: %w", i, err)
	}
	if shapes == nil {
		shapes = []diagram.Shape{}
	}
	return shapes, nil
}

// Stats returns the current position and the number of states.
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
