package roi

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"orthosync/internal/models"
)

// Rect is an axis-aligned rectangle in one view's local coordinates
type Rect struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// RectFromPoints returns the rectangle spanned by two drag corners,
// regardless of drag direction.
func RectFromPoints(a, b models.Point2D) Rect {
	return Rect{
		Left:   min(a.H, b.H),
		Top:    min(a.V, b.V),
		Right:  max(a.H, b.H),
		Bottom: max(a.V, b.V),
	}
}

// Valid reports whether the rectangle has positive width and height
func (r Rect) Valid() bool {
	return r.Left < r.Right && r.Top < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// DepthRange is the inclusive slice window along a view's depth axis
type DepthRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Bounds is the inclusive voxel box of the active ROI
type Bounds struct {
	XMin int `yaml:"xMin"`
	XMax int `yaml:"xMax"`
	YMin int `yaml:"yMin"`
	YMax int `yaml:"yMax"`
	ZMin int `yaml:"zMin"`
	ZMax int `yaml:"zMax"`
}

func boundsFrom(lo, hi [3]int) Bounds {
	return Bounds{
		XMin: lo[models.X], XMax: hi[models.X],
		YMin: lo[models.Y], YMax: hi[models.Y],
		ZMin: lo[models.Z], ZMax: hi[models.Z],
	}
}

// Min returns the lower corner indexed by Axis
func (b Bounds) Min() [3]int {
	return [3]int{b.XMin, b.YMin, b.ZMin}
}

// Max returns the upper corner indexed by Axis
func (b Bounds) Max() [3]int {
	return [3]int{b.XMax, b.YMax, b.ZMax}
}

// Size returns the number of voxels along each axis, inclusive of both ends
func (b Bounds) Size() [3]int {
	return [3]int{b.XMax - b.XMin + 1, b.YMax - b.YMin + 1, b.ZMax - b.ZMin + 1}
}

// Center returns the centre of the box in voxel coordinates
func (b Bounds) Center() r3.Vec {
	return r3.Vec{
		X: float64(b.XMin+b.XMax) / 2,
		Y: float64(b.YMin+b.YMax) / 2,
		Z: float64(b.ZMin+b.ZMax) / 2,
	}
}

// Box returns the box in physical units given the voxel spacing
func (b Bounds) Box(spacing [3]float64) r3.Box {
	return r3.Box{
		Min: r3.Vec{
			X: float64(b.XMin) * spacing[models.X],
			Y: float64(b.YMin) * spacing[models.Y],
			Z: float64(b.ZMin) * spacing[models.Z],
		},
		Max: r3.Vec{
			X: float64(b.XMax) * spacing[models.X],
			Y: float64(b.YMax) * spacing[models.Y],
			Z: float64(b.ZMax) * spacing[models.Z],
		},
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("x[%d,%d] y[%d,%d] z[%d,%d]", b.XMin, b.XMax, b.YMin, b.YMax, b.ZMin, b.ZMax)
}
