package models

import "testing"

func TestParseViewKind(t *testing.T) {
	tests := map[string]ViewKind{
		"axial":     Axial,
		"Sagittal":  Sagittal,
		" coronal ": Coronal,
		"s":         Sagittal,
	}
	for name, want := range tests {
		got, err := ParseViewKind(name)
		if err != nil || got != want {
			t.Errorf("ParseViewKind(%q): expected %s, got %s (%v)", name, want, got, err)
		}
	}

	if _, err := ParseViewKind("oblique"); err == nil {
		t.Error("Expected error for unknown view, got nil")
	}
}

func TestViewKindText(t *testing.T) {
	for _, v := range Views {
		text, err := v.MarshalText()
		if err != nil {
			t.Fatalf("Failed to marshal %s: %v", v, err)
		}
		var back ViewKind
		if err := back.UnmarshalText(text); err != nil || back != v {
			t.Errorf("Expected %s, got %s (%v)", v, back, err)
		}
	}
	if _, err := ViewKind(3).MarshalText(); err == nil {
		t.Error("Expected error marshaling invalid view")
	}
}

func TestOthers(t *testing.T) {
	if got := Sagittal.Others(); got != [2]ViewKind{Axial, Coronal} {
		t.Errorf("Expected [axial coronal], got %v", got)
	}
	if got := Axial.Others(); got != [2]ViewKind{Sagittal, Coronal} {
		t.Errorf("Expected [sagittal coronal], got %v", got)
	}
}

func TestVolumeArrays(t *testing.T) {
	v := Volume{SizeX: 3, SizeY: 2, SizeZ: 1, SpacingX: 0.5, SpacingY: 0.25, SpacingZ: 4}
	if v.Size() != [3]int{3, 2, 1} {
		t.Errorf("Expected size [3 2 1], got %v", v.Size())
	}
	if v.Spacing()[Z] != 4 {
		t.Errorf("Expected Z spacing 4, got %f", v.Spacing()[Z])
	}
	if X.String() != "x" || Axis(5).Valid() {
		t.Error("Unexpected axis helpers")
	}
}
