package roi

import (
	"errors"
	"math"
	"testing"

	"orthosync/internal/models"
	"orthosync/pkg/geometry"
)

// newTestSelector uses a volume of 100x200x300 (Z,Y,X)
func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	geom, err := geometry.New(models.Volume{
		SizeX: 300, SizeY: 200, SizeZ: 100,
		SpacingX: 1, SpacingY: 1, SpacingZ: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create geometry: %v", err)
	}
	return NewSelector(geom, DefaultHalfWidth)
}

// TestAxialROI reproduces the axial rectangle at slice 40
func TestAxialROI(t *testing.T) {
	s := newTestSelector(t)

	b, err := s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)
	if err != nil {
		t.Fatalf("Failed to add rect: %v", err)
	}

	want := Bounds{XMin: 10, XMax: 50, YMin: 20, YMax: 80, ZMin: 15, ZMax: 65}
	if b != want {
		t.Errorf("Expected bounds %s, got %s", want, b)
	}
	if s.State() != Active {
		t.Errorf("Expected state active, got %s", s.State())
	}
	if got, ok := s.Bounds(); !ok || got != want {
		t.Errorf("Expected stored bounds %s, got %s (%v)", want, got, ok)
	}
}

func TestBoundsAlwaysOrdered(t *testing.T) {
	s := newTestSelector(t)
	for _, view := range models.Views {
		for _, slice := range []int{0, 1, 50, 99} {
			b, err := s.AddRect(view, Rect{Left: 1, Top: 2, Right: 30, Bottom: 40}, slice)
			if err != nil {
				t.Fatalf("%s@%d: failed to add rect: %v", view, slice, err)
			}
			lo, hi := b.Min(), b.Max()
			for _, axis := range models.Axes {
				if lo[axis] >= hi[axis] {
					t.Errorf("%s@%d: expected min < max along %s, got %s", view, slice, axis, b)
				}
			}
		}
	}
}

func TestDegenerateRectKeepsPrevious(t *testing.T) {
	s := newTestSelector(t)
	prev, _ := s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)

	_, err := s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 5, Bottom: 80}, 40)
	if !errors.Is(err, ErrDegenerateRect) {
		t.Errorf("Expected ErrDegenerateRect, got %v", err)
	}
	_, err = s.AddRect(models.Sagittal, Rect{Left: 10, Top: 20, Right: 30, Bottom: 20}, 40)
	if !errors.Is(err, ErrDegenerateRect) {
		t.Errorf("Expected ErrDegenerateRect, got %v", err)
	}

	if got, _ := s.Bounds(); got != prev {
		t.Errorf("Expected previous bounds %s, got %s", prev, got)
	}
	if _, ok := s.Rect(models.Axial); !ok {
		t.Error("Expected axial rect to survive")
	}
}

func TestRectOutsideVolume(t *testing.T) {
	s := newTestSelector(t)
	prev, _ := s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)

	// Sagittal horizontal is Z with 100 slices
	_, err := s.AddRect(models.Sagittal, Rect{Left: 10, Top: 20, Right: 150, Bottom: 80}, 40)
	if !errors.Is(err, ErrInvalidROI) || !errors.Is(err, geometry.ErrDegenerateRange) {
		t.Errorf("Expected ErrInvalidROI wrapping ErrDegenerateRange, got %v", err)
	}
	if got, _ := s.Bounds(); got != prev {
		t.Errorf("Expected previous bounds %s, got %s", prev, got)
	}
}

func TestReselectInOtherViewClears(t *testing.T) {
	s := newTestSelector(t)
	s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)

	b, err := s.AddRect(models.Sagittal, Rect{Left: 5, Top: 10, Right: 60, Bottom: 90}, 100)
	if err != nil {
		t.Fatalf("Failed to add sagittal rect: %v", err)
	}
	if _, ok := s.Rect(models.Axial); ok {
		t.Error("Expected axial rect to be cleared")
	}
	if r, ok := s.Rect(models.Sagittal); !ok || r.Right != 60 {
		t.Errorf("Expected sagittal rect, got %v (%v)", r, ok)
	}
	want := Bounds{XMin: 75, XMax: 125, YMin: 10, YMax: 90, ZMin: 5, ZMax: 60}
	if b != want {
		t.Errorf("Expected bounds %s, got %s", want, b)
	}

	// Beginning a drag in another view clears immediately
	s.BeginRect(models.Coronal)
	if _, ok := s.Rect(models.Sagittal); ok {
		t.Error("Expected sagittal rect cleared when coronal drag begins")
	}
	if s.State() != RectPending {
		t.Errorf("Expected pending state, got %s", s.State())
	}
	if v, ok := s.View(); !ok || v != models.Coronal {
		t.Errorf("Expected coronal pending view, got %s", v)
	}
}

func TestSliceRecentering(t *testing.T) {
	s := newTestSelector(t)
	s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)

	tests := []struct {
		slice    int
		min, max int
	}{
		{50, 25, 75},
		{3, 0, 28},
		{0, 0, 25},
		{97, 72, 99},
		{99, 74, 99},
	}

	for _, tt := range tests {
		b, _, err := s.OnViewSliceChanged(models.Axial, tt.slice)
		if err != nil {
			t.Fatalf("slice %d: unexpected error %v", tt.slice, err)
		}
		if b.ZMin != tt.min || b.ZMax != tt.max {
			t.Errorf("slice %d: expected z[%d,%d], got z[%d,%d]", tt.slice, tt.min, tt.max, b.ZMin, b.ZMax)
		}
		if d, _ := s.DepthRange(); d.Min != tt.min || d.Max != tt.max {
			t.Errorf("slice %d: expected depth [%d,%d], got %v", tt.slice, tt.min, tt.max, d)
		}
	}

	// Other views do not move the window
	before, _ := s.Bounds()
	if _, changed, _ := s.OnViewSliceChanged(models.Coronal, 10); changed {
		t.Error("Expected coronal slice change to be ignored")
	}
	if after, _ := s.Bounds(); after != before {
		t.Errorf("Expected bounds %s unchanged, got %s", before, after)
	}
}

func TestSetDepthRange(t *testing.T) {
	s := newTestSelector(t)
	if _, err := s.SetDepthRange(1, 5); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Expected ErrNoSelection, got %v", err)
	}

	s.AddRect(models.Coronal, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 100)
	b, err := s.SetDepthRange(30, 180)
	if err != nil {
		t.Fatalf("Failed to set depth range: %v", err)
	}
	if b.YMin != 30 || b.YMax != 180 {
		t.Errorf("Expected y[30,180], got %s", b)
	}

	if _, err := s.SetDepthRange(180, 30); !errors.Is(err, geometry.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange, got %v", err)
	}
	if _, err := s.SetDepthRange(0, 200); !errors.Is(err, geometry.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange for out of bounds max, got %v", err)
	}
	if d, _ := s.DepthRange(); d.Min != 30 || d.Max != 180 {
		t.Errorf("Expected depth range unchanged, got %v", d)
	}
}

func TestFlatVolumeROIInvalid(t *testing.T) {
	geom, _ := geometry.New(models.Volume{
		SizeX: 64, SizeY: 64, SizeZ: 1,
		SpacingX: 1, SpacingY: 1, SpacingZ: 1,
	})
	s := NewSelector(geom, 0)
	if s.HalfWidth() != DefaultHalfWidth {
		t.Errorf("Expected default half width, got %d", s.HalfWidth())
	}

	_, err := s.AddRect(models.Axial, Rect{Left: 1, Top: 1, Right: 10, Bottom: 10}, 0)
	if !errors.Is(err, ErrInvalidROI) {
		t.Errorf("Expected ErrInvalidROI for single-slice volume, got %v", err)
	}
	if s.State() != NoSelection {
		t.Errorf("Expected no selection, got %s", s.State())
	}
}

func TestClear(t *testing.T) {
	s := newTestSelector(t)
	s.AddRect(models.Axial, Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}, 40)
	s.Clear()

	if _, ok := s.Bounds(); ok {
		t.Error("Expected bounds cleared")
	}
	if _, ok := s.DepthRange(); ok {
		t.Error("Expected depth range cleared")
	}
	if _, err := s.ComputeBounds(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("Expected ErrNoSelection, got %v", err)
	}
	if s.HalfWidth() != DefaultHalfWidth {
		t.Errorf("Expected half width to survive clear, got %d", s.HalfWidth())
	}
}

func TestRectPreview(t *testing.T) {
	s := newTestSelector(t)
	s.UpdateRect(Rect{Left: 1, Top: 1, Right: 2, Bottom: 2})
	if _, ok := s.Preview(); ok {
		t.Error("Expected no preview outside a pending drag")
	}

	s.BeginRect(models.Axial)
	s.UpdateRect(RectFromPoints(models.Point2D{H: 50, V: 80}, models.Point2D{H: 10, V: 20}))
	r, ok := s.Preview()
	if !ok || r != (Rect{Left: 10, Top: 20, Right: 50, Bottom: 80}) {
		t.Errorf("Expected normalized preview, got %v (%v)", r, ok)
	}

	s.CancelRect()
	if s.State() != NoSelection {
		t.Errorf("Expected no selection after cancel, got %s", s.State())
	}
}

func TestBoundsBox(t *testing.T) {
	b := Bounds{XMin: 10, XMax: 50, YMin: 20, YMax: 80, ZMin: 15, ZMax: 65}
	box := b.Box([3]float64{0.5, 0.5, 2})
	if box.Min.X != 5 || box.Max.Y != 40 || box.Min.Z != 30 || box.Max.Z != 130 {
		t.Errorf("Unexpected physical box %+v", box)
	}
	c := b.Center()
	if math.Abs(c.X-30) > 1e-9 || math.Abs(c.Z-40) > 1e-9 {
		t.Errorf("Unexpected center %+v", c)
	}
	if b.Size() != [3]int{41, 61, 51} {
		t.Errorf("Expected size [41 61 51], got %v", b.Size())
	}
}
