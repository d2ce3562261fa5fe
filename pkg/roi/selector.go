// Package roi maintains the single active region of interest: a rectangle
// drawn in one view combined with a slice window along that view's depth
// axis.
package roi

import (
	"errors"
	"fmt"

	"orthosync/internal/models"
	"orthosync/pkg/axismap"
	"orthosync/pkg/geometry"
)

// DefaultHalfWidth is the number of slices kept on each side of the current
// slice when the depth window is centred.
const DefaultHalfWidth = 25

var (
	// ErrDegenerateRect is returned for a rectangle with zero or negative width or height
	ErrDegenerateRect = errors.New("degenerate rectangle")

	// ErrInvalidROI is returned when a rectangle and depth range do not form a valid box
	ErrInvalidROI = errors.New("invalid ROI")

	// ErrNoSelection is returned when an operation needs an active ROI
	ErrNoSelection = errors.New("no active ROI")
)

// State is the selection state of a Selector
type State int

const (
	NoSelection State = iota
	RectPending
	Active
)

func (s State) String() string {
	switch s {
	case NoSelection:
		return "none"
	case RectPending:
		return "pending"
	case Active:
		return "active"
	}
	return "unknown"
}

// Selector owns the one ROI shared by all views
type Selector struct {
	geom      *geometry.VolumeGeometry
	halfWidth int

	view    models.ViewKind
	pending bool
	preview *Rect

	active bool
	rect   Rect
	depth  DepthRange

	bounds    Bounds
	hasBounds bool
}

// NewSelector creates a selector. A non-positive halfWidth selects
// DefaultHalfWidth.
func NewSelector(geom *geometry.VolumeGeometry, halfWidth int) *Selector {
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	return &Selector{geom: geom, halfWidth: halfWidth}
}

// State returns the current selection state
func (s *Selector) State() State {
	switch {
	case s.pending:
		return RectPending
	case s.active:
		return Active
	}
	return NoSelection
}

// View returns the view holding the pending or active rectangle
func (s *Selector) View() (models.ViewKind, bool) {
	return s.view, s.pending || s.active
}

// HalfWidth returns the depth window half-width
func (s *Selector) HalfWidth() int {
	return s.halfWidth
}

// StartSelection clears any ROI and waits for the next rectangle
func (s *Selector) StartSelection() {
	s.Clear()
}

// BeginRect enters RectPending for view. An ROI held by another view is
// cleared first.
func (s *Selector) BeginRect(view models.ViewKind) {
	if (s.active || s.pending) && s.view != view {
		s.Clear()
	}
	s.view = view
	s.pending = true
	s.preview = nil
}

// UpdateRect records the rectangle being dragged in the pending view
func (s *Selector) UpdateRect(rect Rect) {
	if s.pending {
		s.preview = &rect
	}
}

// Preview returns the rectangle being dragged, if any
func (s *Selector) Preview() (Rect, bool) {
	if !s.pending || s.preview == nil {
		return Rect{}, false
	}
	return *s.preview, true
}

// CancelRect leaves RectPending without recording a rectangle
func (s *Selector) CancelRect() {
	s.pending = false
	s.preview = nil
}

// AddRect makes rect in view the sole ROI, with a depth window centred on
// slice. On failure the previous ROI is left untouched.
func (s *Selector) AddRect(view models.ViewKind, rect Rect, slice int) (Bounds, error) {
	if !rect.Valid() {
		return Bounds{}, fmt.Errorf("%w: %s in %s view", ErrDegenerateRect, rect, view)
	}

	depth := s.window(view, slice)
	b, err := s.combine(view, rect, depth)
	if err != nil {
		return Bounds{}, err
	}

	if s.view != view {
		s.Clear()
	}
	s.view = view
	s.pending = false
	s.preview = nil
	s.active = true
	s.rect = rect
	s.depth = depth
	s.bounds = b
	s.hasBounds = true
	return b, nil
}

// OnViewSliceChanged recentres the depth window when view is the ROI's
// authoring view. It reports whether the ROI changed.
func (s *Selector) OnViewSliceChanged(view models.ViewKind, slice int) (Bounds, bool, error) {
	if !s.active || view != s.view {
		return s.bounds, false, nil
	}

	depth := s.window(view, slice)
	if depth == s.depth {
		return s.bounds, false, nil
	}
	b, err := s.combine(view, s.rect, depth)
	if err != nil {
		return s.bounds, false, err
	}
	s.depth = depth
	s.bounds = b
	s.hasBounds = true
	return b, true, nil
}

// SetDepthRange overrides the depth window of the active ROI
func (s *Selector) SetDepthRange(min, max int) (Bounds, error) {
	if !s.active {
		return Bounds{}, ErrNoSelection
	}
	if err := s.geom.ValidateRange(axismap.For(s.view).Depth, min, max); err != nil {
		return s.bounds, err
	}
	prev := s.depth
	s.depth = DepthRange{Min: min, Max: max}
	b, err := s.ComputeBounds()
	if err != nil {
		s.depth = prev
		return b, err
	}
	return b, nil
}

// ComputeBounds combines the rectangle and depth window into a 3D box. If
// the combination is invalid the last good bounds are kept and
// ErrInvalidROI is returned.
func (s *Selector) ComputeBounds() (Bounds, error) {
	if !s.active {
		return Bounds{}, ErrNoSelection
	}
	b, err := s.combine(s.view, s.rect, s.depth)
	if err != nil {
		return s.bounds, err
	}
	s.bounds = b
	s.hasBounds = true
	return b, nil
}

// Bounds returns the last successfully computed bounds
func (s *Selector) Bounds() (Bounds, bool) {
	return s.bounds, s.hasBounds
}

// Rect returns the ROI rectangle if it is held by view
func (s *Selector) Rect(view models.ViewKind) (Rect, bool) {
	if !s.active || s.view != view {
		return Rect{}, false
	}
	return s.rect, true
}

// DepthRange returns the depth window of the active ROI
func (s *Selector) DepthRange() (DepthRange, bool) {
	return s.depth, s.active
}

// Clear discards the rectangle, depth window and bounds
func (s *Selector) Clear() {
	*s = Selector{geom: s.geom, halfWidth: s.halfWidth}
}

// window centres the depth window on slice, clamped to the volume
func (s *Selector) window(view models.ViewKind, slice int) DepthRange {
	axis := axismap.For(view).Depth
	return DepthRange{
		Min: s.geom.Clamp(axis, slice-s.halfWidth),
		Max: s.geom.Clamp(axis, slice+s.halfWidth),
	}
}

func (s *Selector) combine(view models.ViewKind, rect Rect, depth DepthRange) (Bounds, error) {
	m := axismap.For(view)
	var lo, hi [3]int
	lo[m.Horizontal], hi[m.Horizontal] = rect.Left, rect.Right
	lo[m.Vertical], hi[m.Vertical] = rect.Top, rect.Bottom
	lo[m.Depth], hi[m.Depth] = depth.Min, depth.Max

	for _, axis := range models.Axes {
		if err := s.geom.ValidateRange(axis, lo[axis], hi[axis]); err != nil {
			return Bounds{}, fmt.Errorf("%w: %w", ErrInvalidROI, err)
		}
	}
	return boundsFrom(lo, hi), nil
}
