package models

import (
	"fmt"
	"strings"
)

// Axis identifies one of the three volume axes
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Axes lists the volume axes in index order
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Valid reports whether a is one of X, Y or Z
func (a Axis) Valid() bool {
	return a >= X && a <= Z
}

// ViewKind is one of the three orthogonal projections of a volume
type ViewKind int

const (
	Axial ViewKind = iota
	Sagittal
	Coronal
)

// Views lists every view kind in index order
var Views = [3]ViewKind{Axial, Sagittal, Coronal}

func (v ViewKind) String() string {
	switch v {
	case Axial:
		return "axial"
	case Sagittal:
		return "sagittal"
	case Coronal:
		return "coronal"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Valid reports whether v is one of the three canonical views
func (v ViewKind) Valid() bool {
	return v >= Axial && v <= Coronal
}

// Others returns the two views other than v, in index order
func (v ViewKind) Others() [2]ViewKind {
	var out [2]ViewKind
	i := 0
	for _, o := range Views {
		if o != v {
			out[i] = o
			i++
		}
	}
	return out
}

// ParseViewKind converts a view name such as "axial" into a ViewKind
func ParseViewKind(name string) (ViewKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "axial", "a":
		return Axial, nil
	case "sagittal", "s":
		return Sagittal, nil
	case "coronal", "c":
		return Coronal, nil
	}
	return 0, fmt.Errorf("unknown view %q (must be axial, sagittal or coronal)", name)
}

// MarshalText implements encoding.TextMarshaler so views serialize by name
func (v ViewKind) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid view %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *ViewKind) UnmarshalText(text []byte) error {
	parsed, err := ParseViewKind(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Point2D is a position in a view's local pixel coordinates
type Point2D struct {
	// H is the local horizontal coordinate
	H int `yaml:"h"`

	// V is the local vertical coordinate
	V int `yaml:"v"`
}

// Volume describes the extents and voxel spacing of a loaded dataset.
// The voxel data itself belongs to the image loader and is never read here.
type Volume struct {
	// SizeX, SizeY, SizeZ are the number of voxels along each axis
	SizeX int `yaml:"sizeX"`
	SizeY int `yaml:"sizeY"`
	SizeZ int `yaml:"sizeZ"`

	// SpacingX, SpacingY, SpacingZ are the physical voxel sizes in mm
	SpacingX float64 `yaml:"spacingX"`
	SpacingY float64 `yaml:"spacingY"`
	SpacingZ float64 `yaml:"spacingZ"`
}

// Size returns the extents indexed by Axis
func (v Volume) Size() [3]int {
	return [3]int{v.SizeX, v.SizeY, v.SizeZ}
}

// Spacing returns the voxel spacing indexed by Axis
func (v Volume) Spacing() [3]float64 {
	return [3]float64{v.SpacingX, v.SpacingY, v.SpacingZ}
}
