// Package store holds the shape collection of a document and is the single
// mutation entry point used by the binding and routing packages.
package store

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"diagrid/diagram"
)

// tracer writes to trace with key 'diagrid.store'
func tracer() tracing.Trace {
	return tracing.Select("diagrid.store")
}

var (
	// ErrUnknownShape is returned when an id does not name a shape.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrDuplicateShape is returned when adding a shape whose id is taken.
	ErrDuplicateShape = errors.New("duplicate shape id")
)

// Document is an ordered shape collection with undo history. Order is
// significant: binding detection walks shapes in this order.
type Document struct {
	shapes  []diagram.Shape
	history *History
}

// New creates a document holding a copy of shapes. The initial state is
// the first history entry.
func New(shapes []diagram.Shape, historySize int) *Document {
	d := &Document{
		shapes:  cloneAll(shapes),
		history: NewHistory(historySize),
	}
	d.snapshot()
	return d
}

// Shapes returns a copy of the current shapes. It satisfies
// diagram.ShapeSource.
func (d *Document) Shapes() []diagram.Shape {
	return cloneAll(d.shapes)
}

// Shape returns a copy of the shape with the given id.
func (d *Document) Shape(id string) (diagram.Shape, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return diagram.Shape{}, false
	}
	return d.shapes[i].Clone(), true
}

// Len returns the number of shapes.
func (d *Document) Len() int {
	return len(d.shapes)
}

// Update applies a patch and satisfies diagram.UpdateFunc. Patches for
// unknown ids are dropped.
func (d *Document) Update(id string, patch diagram.Patch, recordHistory bool) {
	if err := d.Apply(id, patch, recordHistory); err != nil {
		tracer().Debugf("update dropped: %v", err)
	}
}

// Apply writes patch into the shape with the given id.
func (d *Document) Apply(id string, patch diagram.Patch, recordHistory bool) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("apply patch to %q: %w", id, ErrUnknownShape)
	}
	if patch.IsEmpty() {
		return nil
	}
	patch.Apply(&d.shapes[i])
	if recordHistory {
		d.snapshot()
	}
	return nil
}

// Add appends a shape.
func (d *Document) Add(s diagram.Shape) error {
	if d.indexOf(s.ID) >= 0 {
		return fmt.Errorf("add %q: %w", s.ID, ErrDuplicateShape)
	}
	d.shapes = append(d.shapes, s.Clone())
	d.snapshot()
	return nil
}

// Remove deletes a shape. Bindings referencing it are left in place; they
// stay inert until the id reappears or the connector is detached.
func (d *Document) Remove(id string) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownShape)
	}
	d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
	d.snapshot()
	return nil
}

// Move translates a shape by (dx, dy) without recording history, as a drag
// step does.
func (d *Document) Move(id string, dx, dy float64) error {
	i := d.indexOf(id)
	if i < 0 {
		return fmt.Errorf("move %q: %w", id, ErrUnknownShape)
	}
	d.shapes[i].X += dx
	d.shapes[i].Y += dy
	return nil
}

// Commit records the current state, typically at the end of a drag.
func (d *Document) Commit() {
	d.snapshot()
}

// Undo restores the previous recorded state. It returns false if there is
// nothing to undo.
func (d *Document) Undo() (bool, error) {
	shapes, err := d.history.Undo()
	if err != nil || shapes == nil {
		return false, err
	}
	d.shapes = shapes
	return true, nil
}

// Redo restores the next recorded state. It returns false if there is
// nothing to redo.
func (d *Document) Redo() (bool, error) {
	shapes, err := d.history.Redo()
	if err != nil || shapes == nil {
		return false, err
	}
	d.shapes = shapes
	return true, nil
}

// History exposes the undo history.
func (d *Document) History() *History {
	return d.history
}

func (d *Document) snapshot() {
	if err := d.history.Save(d.shapes); err != nil {
		tracer().Errorf("history: %v", err)
	}
}

func (d *Document) indexOf(id string) int {
	for i := range d.shapes {
		if d.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(shapes []diagram.Shape) []diagram.Shape {
	out := make([]diagram.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
