// Package annotation keeps the measurement lines drawn in each of the three
// orthogonal views and projects every line into the other two views.
package annotation

import (
	"errors"
	"fmt"

	"orthosync/internal/models"
	"orthosync/pkg/axismap"
	"orthosync/pkg/geometry"
)

// ErrNoDrag is returned when a drag is updated or ended without having begun
var ErrNoDrag = errors.New("no drag in progress")

// Store holds the per-view measurement lines. Each view cycles between idle
// and dragging; a completed drag is judged on its own for duplicates.
// The drag methods expect a valid view; the read accessors tolerate any.
type Store struct {
	geom      *geometry.VolumeGeometry
	tolerance float64

	lines   [3][]LineSegment
	pending [3]*models.Point2D
	preview [3]*LineSegment

	// corresponding caches committed projections keyed by target view
	corresponding [3][]CorrespondingLine
}

// NewStore creates an empty store. A non-positive tolerance selects
// DefaultTolerance.
func NewStore(geom *geometry.VolumeGeometry, tolerance float64) *Store {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Store{
		geom:      geom,
		tolerance: tolerance,
	}
}

// Tolerance returns the duplicate-suppression tolerance in pixels
func (s *Store) Tolerance() float64 {
	return s.tolerance
}

// clampPoint keeps p inside view's local extents
func (s *Store) clampPoint(view models.ViewKind, p models.Point2D) models.Point2D {
	m := axismap.For(view)
	return models.Point2D{
		H: s.geom.Clamp(m.Horizontal, p.H),
		V: s.geom.Clamp(m.Vertical, p.V),
	}
}

// clampSlice keeps slice inside view's depth axis
func (s *Store) clampSlice(view models.ViewKind, slice int) int {
	return s.geom.Clamp(axismap.For(view).Depth, slice)
}

// BeginDrag records the start point of a new line in view
func (s *Store) BeginDrag(view models.ViewKind, p models.Point2D) {
	p = s.clampPoint(view, p)
	s.pending[view] = &p
	s.preview[view] = nil
}

// Dragging reports whether view has a drag in progress
func (s *Store) Dragging(view models.ViewKind) bool {
	if !view.Valid() {
		return false
	}
	return s.pending[view] != nil
}

// UpdateDrag computes the would-be segment from the pending start to p and
// returns its live projections into the other two views. Nothing is stored.
func (s *Store) UpdateDrag(view models.ViewKind, p models.Point2D, slice int) ([]CorrespondingLine, error) {
	start := s.pending[view]
	if start == nil {
		return nil, fmt.Errorf("%w in %s view", ErrNoDrag, view)
	}

	seg := NewSegment(view, *start, s.clampPoint(view, p), s.clampSlice(view, slice))
	s.preview[view] = &seg

	out := make([]CorrespondingLine, 0, 2)
	for _, target := range view.Others() {
		out = append(out, Project(seg, target, -1))
	}
	return out, nil
}

// EndDrag finalizes the drag in view. It reports whether a new segment was
// stored: a zero-length line or one matching an existing segment within the
// tolerance is dropped.
func (s *Store) EndDrag(view models.ViewKind, p models.Point2D, slice int) (LineSegment, bool, error) {
	start := s.pending[view]
	if start == nil {
		return LineSegment{}, false, fmt.Errorf("%w in %s view", ErrNoDrag, view)
	}
	s.pending[view] = nil
	s.preview[view] = nil

	seg := NewSegment(view, *start, s.clampPoint(view, p), s.clampSlice(view, slice))
	if seg.Start == seg.End {
		return seg, false, nil
	}
	for _, existing := range s.lines[view] {
		if SegmentsEqual(existing, seg, s.tolerance) {
			return existing, false, nil
		}
	}

	s.lines[view] = append(s.lines[view], seg)
	others := view.Others()
	s.rebuild(others[:]...)
	return seg, true, nil
}

// Cancel discards the drag in progress in view, if any
func (s *Store) Cancel(view models.ViewKind) {
	s.pending[view] = nil
	s.preview[view] = nil
}

// CancelAll discards in-progress drags in every view
func (s *Store) CancelAll() {
	for _, v := range models.Views {
		s.Cancel(v)
	}
}

// Remove deletes the index-th segment stored for view
func (s *Store) Remove(view models.ViewKind, index int) error {
	if !view.Valid() {
		return fmt.Errorf("invalid view: %d", int(view))
	}
	if index < 0 || index >= len(s.lines[view]) {
		return fmt.Errorf("line %d out of range in %s view (have %d)", index, view, len(s.lines[view]))
	}
	s.lines[view] = append(s.lines[view][:index:index], s.lines[view][index+1:]...)
	others := view.Others()
	s.rebuild(others[:]...)
	return nil
}

// ClearAll empties every view's lines, projections and pending drags
func (s *Store) ClearAll() {
	for _, v := range models.Views {
		s.lines[v] = nil
		s.corresponding[v] = nil
	}
	s.CancelAll()
}

// Lines returns a copy of the segments authored in view
func (s *Store) Lines(view models.ViewKind) []LineSegment {
	if !view.Valid() {
		return nil
	}
	return append([]LineSegment(nil), s.lines[view]...)
}

// Count returns the number of segments authored in view
func (s *Store) Count(view models.ViewKind) int {
	if !view.Valid() {
		return 0
	}
	return len(s.lines[view])
}

// Corresponding returns the projections into view of every segment authored
// elsewhere, followed by previews of drags in progress in the other views.
func (s *Store) Corresponding(view models.ViewKind) []CorrespondingLine {
	if !view.Valid() {
		return nil
	}
	out := append([]CorrespondingLine(nil), s.corresponding[view]...)
	for _, src := range view.Others() {
		if seg := s.preview[src]; seg != nil {
			out = append(out, Project(*seg, view, -1))
		}
	}
	return out
}

// Refresh recomputes the cached projections shown in view
func (s *Store) Refresh(view models.ViewKind) {
	s.rebuild(view)
}

func (s *Store) rebuild(targets ...models.ViewKind) {
	for _, target := range targets {
		lines := s.corresponding[target][:0]
		for _, src := range target.Others() {
			for i, seg := range s.lines[src] {
				lines = append(lines, Project(seg, target, i))
			}
		}
		s.corresponding[target] = lines
	}
}
