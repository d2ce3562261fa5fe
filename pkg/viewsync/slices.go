package viewsync

import "orthosync/internal/models"

// SliceControl reads and moves the current slice of each view. The UI layer
// supplies it so the controller never touches a concrete slider widget.
type SliceControl interface {
	SliceIndex(view models.ViewKind) int
	SetSliceIndex(view models.ViewKind, index int)
}

// SliceState is an in-memory SliceControl used when the UI layer does not
// provide one, and by headless replays.
type SliceState struct {
	slices [3]int
}

// NewSliceState starts every view at its middle slice
func NewSliceState(vol models.Volume) *SliceState {
	s := &SliceState{}
	s.slices[models.Axial] = vol.SizeZ / 2
	s.slices[models.Sagittal] = vol.SizeX / 2
	s.slices[models.Coronal] = vol.SizeY / 2
	return s
}

func (s *SliceState) SliceIndex(view models.ViewKind) int {
	return s.slices[view]
}

func (s *SliceState) SetSliceIndex(view models.ViewKind, index int) {
	s.slices[view] = index
}
