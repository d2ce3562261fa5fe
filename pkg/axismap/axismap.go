// Package axismap describes how each orthogonal view of a volume maps its
// local pixel axes and its slice axis onto the volume's X, Y and Z axes.
package axismap

import (
	"orthosync/internal/models"
)

// Role is the part an axis plays in a given view
type Role int

const (
	Depth Role = iota
	Horizontal
	Vertical
)

func (r Role) String() string {
	switch r {
	case Depth:
		return "depth"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "unknown"
}

// Mapping is the ordered triple (depth, horizontal, vertical) for one view
type Mapping struct {
	Depth      models.Axis
	Horizontal models.Axis
	Vertical   models.Axis
}

var table = [3]Mapping{
	models.Axial:    {Depth: models.Z, Horizontal: models.X, Vertical: models.Y},
	models.Sagittal: {Depth: models.X, Horizontal: models.Z, Vertical: models.Y},
	models.Coronal:  {Depth: models.Y, Horizontal: models.X, Vertical: models.Z},
}

// For returns the axis mapping of view. The view must be valid; For panics
// on values outside Axial, Sagittal and Coronal, as do RoleOf, Lift, Drop
// and LocalExtents.
func For(view models.ViewKind) Mapping {
	return table[view]
}

// Axis returns the volume axis that plays role r in the mapping
func (m Mapping) Axis(r Role) models.Axis {
	switch r {
	case Horizontal:
		return m.Horizontal
	case Vertical:
		return m.Vertical
	}
	return m.Depth
}

// RoleOf returns the role that axis plays in view
func RoleOf(view models.ViewKind, axis models.Axis) Role {
	m := For(view)
	switch axis {
	case m.Horizontal:
		return Horizontal
	case m.Vertical:
		return Vertical
	}
	return Depth
}

// Lift converts a point in view plus the view's slice index into voxel
// coordinates indexed by Axis.
func Lift(view models.ViewKind, p models.Point2D, slice int) [3]int {
	m := For(view)
	var voxel [3]int
	voxel[m.Horizontal] = p.H
	voxel[m.Vertical] = p.V
	voxel[m.Depth] = slice
	return voxel
}

// Drop is the inverse of Lift: it returns the point voxel occupies in view
// and the slice index of view that contains it.
func Drop(view models.ViewKind, voxel [3]int) (models.Point2D, int) {
	m := For(view)
	return models.Point2D{H: voxel[m.Horizontal], V: voxel[m.Vertical]}, voxel[m.Depth]
}

// LocalExtents returns the horizontal and vertical extents of view and the
// number of slices along its depth axis, given volume sizes indexed by Axis.
func LocalExtents(view models.ViewKind, size [3]int) (width, height, slices int) {
	m := For(view)
	return size[m.Horizontal], size[m.Vertical], size[m.Depth]
}
