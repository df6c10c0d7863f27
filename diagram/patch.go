package diagram

// Patch is a partial update of a shape. Nil fields are left untouched.
type Patch struct {
	Frame         *Frame
	Points        []Point
	ControlPoints []Point
	StartBinding  *Binding
	EndBinding    *Binding
	DetachStart   bool
	DetachEnd     bool
}

// IsEmpty returns true if applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Frame == nil && p.Points == nil && p.ControlPoints == nil &&
		p.StartBinding == nil && p.EndBinding == nil &&
		!p.DetachStart && !p.DetachEnd
}

// Apply writes the patch into s.
func (p Patch) Apply(s *Shape) {
	if p.Frame != nil {
		s.Frame = *p.Frame
	}
	if p.Points != nil {
		s.Points = append([]Point(nil), p.Points...)
	}
	if p.ControlPoints != nil {
		s.ControlPoints = append([]Point(nil), p.ControlPoints...)
	}
	if p.DetachStart {
		s.StartBinding = nil
	} else if p.StartBinding != nil {
		b := *p.StartBinding
		s.StartBinding = &b
	}
	if p.DetachEnd {
		s.EndBinding = nil
	} else if p.EndBinding != nil {
		b := *p.EndBinding
		s.EndBinding = &b
	}
}
