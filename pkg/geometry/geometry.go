// Package geometry validates and clamps voxel coordinates against the
// extents of a loaded volume.
package geometry

import (
	"errors"
	"fmt"

	"orthosync/internal/models"
)

var (
	// ErrInvalidAxis is returned for an axis outside X, Y, Z
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrDegenerateRange is returned when min >= max or the range leaves the volume
	ErrDegenerateRange = errors.New("degenerate range")

	// ErrInvalidExtent is returned when a volume has a non-positive size or spacing
	ErrInvalidExtent = errors.New("invalid volume extent")
)

// VolumeGeometry holds the immutable extents and spacing of one dataset
type VolumeGeometry struct {
	size    [3]int
	spacing [3]float64
}

// New creates a VolumeGeometry from the volume description
func New(vol models.Volume) (*VolumeGeometry, error) {
	g := &VolumeGeometry{size: vol.Size(), spacing: vol.Spacing()}
	for _, a := range models.Axes {
		if g.size[a] <= 0 {
			return nil, fmt.Errorf("%w: size along %s is %d", ErrInvalidExtent, a, g.size[a])
		}
		if g.spacing[a] <= 0 {
			return nil, fmt.Errorf("%w: spacing along %s is %g", ErrInvalidExtent, a, g.spacing[a])
		}
	}
	return g, nil
}

// Extent returns the number of voxels along axis
func (g *VolumeGeometry) Extent(axis models.Axis) (int, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAxis, int(axis))
	}
	return g.size[axis], nil
}

// Spacing returns the physical voxel size along axis
func (g *VolumeGeometry) Spacing(axis models.Axis) (float64, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAxis, int(axis))
	}
	return g.spacing[axis], nil
}

// Size returns the extents indexed by Axis
func (g *VolumeGeometry) Size() [3]int {
	return g.size
}

// Spacings returns the voxel spacing indexed by Axis
func (g *VolumeGeometry) Spacings() [3]float64 {
	return g.spacing
}

// Clamp limits value to [0, extent(axis)-1]. An invalid axis yields 0.
func (g *VolumeGeometry) Clamp(axis models.Axis, value int) int {
	ext, err := g.Extent(axis)
	if err != nil {
		return 0
	}
	if value < 0 {
		return 0
	}
	if value > ext-1 {
		return ext - 1
	}
	return value
}

// ValidateRange succeeds only if 0 <= min < max <= extent(axis)-1
func (g *VolumeGeometry) ValidateRange(axis models.Axis, min, max int) error {
	ext, err := g.Extent(axis)
	if err != nil {
		return err
	}
	if min < 0 || max > ext-1 {
		return fmt.Errorf("%w: [%d, %d] outside [0, %d] along %s", ErrDegenerateRange, min, max, ext-1, axis)
	}
	if min >= max {
		return fmt.Errorf("%w: min %d >= max %d along %s", ErrDegenerateRange, min, max, axis)
	}
	return nil
}
