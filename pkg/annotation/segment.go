package annotation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"orthosync/internal/models"
	"orthosync/pkg/axismap"
	"orthosync/pkg/geometry"
)

// DefaultTolerance is the per-coordinate pixel tolerance used to decide that
// two segments are the same measurement.
const DefaultTolerance = 1.0

// LineSegment is a measurement drawn in one view
type LineSegment struct {
	// View is the view the segment was authored in
	View models.ViewKind `yaml:"view"`

	Start models.Point2D `yaml:"start"`
	End   models.Point2D `yaml:"end"`

	// Distance is the length in local pixel units, computed once in the
	// authoring view and copied unchanged into every projection.
	Distance float64 `yaml:"distance"`

	// Slice is the authoring view's slice index when the segment was drawn
	Slice int `yaml:"slice"`
}

// CorrespondingLine is the projection of a segment into a view other than
// the one it was authored in.
type CorrespondingLine struct {
	Source models.ViewKind
	Target models.ViewKind

	// Index is the position of the source segment in its view's list,
	// or -1 for the live preview of a drag in progress.
	Index int

	Start    models.Point2D
	End      models.Point2D
	Distance float64
}

// Preview reports whether the line belongs to a drag that is not committed
func (c CorrespondingLine) Preview() bool {
	return c.Index < 0
}

// NewSegment builds a segment in view from start to end at the given slice
func NewSegment(view models.ViewKind, start, end models.Point2D, slice int) LineSegment {
	return LineSegment{
		View:     view,
		Start:    start,
		End:      end,
		Distance: pixelDistance(start, end),
		Slice:    slice,
	}
}

func pixelDistance(a, b models.Point2D) float64 {
	return floats.Distance(
		[]float64{float64(a.H), float64(a.V)},
		[]float64{float64(b.H), float64(b.V)},
		2,
	)
}

// SegmentsEqual reports whether a and b have matching endpoints, in either
// order, with each coordinate differing by less than tol.
func SegmentsEqual(a, b LineSegment, tol float64) bool {
	return (pointsClose(a.Start, b.Start, tol) && pointsClose(a.End, b.End, tol)) ||
		(pointsClose(a.Start, b.End, tol) && pointsClose(a.End, b.Start, tol))
}

func pointsClose(p, q models.Point2D, tol float64) bool {
	return math.Abs(float64(p.H-q.H)) < tol && math.Abs(float64(p.V-q.V)) < tol
}

// Project maps seg into target. Coordinates on axes shared by both views are
// copied; the axis that is seg's depth axis takes seg.Slice. The distance is
// copied verbatim, never recomputed from the projected points.
func Project(seg LineSegment, target models.ViewKind, index int) CorrespondingLine {
	start, _ := axismap.Drop(target, axismap.Lift(seg.View, seg.Start, seg.Slice))
	end, _ := axismap.Drop(target, axismap.Lift(seg.View, seg.End, seg.Slice))
	return CorrespondingLine{
		Source:   seg.View,
		Target:   target,
		Index:    index,
		Start:    start,
		End:      end,
		Distance: seg.Distance,
	}
}

// PhysicalLength returns the length of seg in millimetres, scaling each
// axis delta by the voxel spacing. Distance itself stays in pixel units.
func PhysicalLength(seg LineSegment, geom *geometry.VolumeGeometry) float64 {
	a := axismap.Lift(seg.View, seg.Start, seg.Slice)
	b := axismap.Lift(seg.View, seg.End, seg.Slice)
	spacing := geom.Spacings()

	pa := make([]float64, 3)
	pb := make([]float64, 3)
	for _, axis := range models.Axes {
		pa[axis] = float64(a[axis]) * spacing[axis]
		pb[axis] = float64(b[axis]) * spacing[axis]
	}
	return floats.Distance(pa, pb, 2)
}
