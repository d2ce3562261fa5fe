package session

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"orthosync/internal/models"
	"orthosync/pkg/annotation"
	"orthosync/pkg/roi"
	"orthosync/pkg/viewsync"
	"orthosync/pkg/visualization"
)

const testScript = `
volume:
  sizeX: 300
  sizeY: 200
  sizeZ: 100
  spacingX: 0.5
  spacingY: 0.5
  spacingZ: 2.0
events:
  - {op: slice, view: axial, slice: 40}
  - {op: mode, mode: roi}
  - {op: drag, view: axial, h: 10, v: 20, to: {h: 50, v: 80}}
  - {op: mode, mode: measuring}
  - {op: slice, view: sagittal, slice: 120}
  - {op: begin, view: sagittal, h: 10, v: 10}
  - {op: update, view: sagittal, h: 10, v: 60}
  - {op: end, view: sagittal, h: 10, v: 110}
  - {op: drag, view: sagittal, h: 10, v: 110, to: {h: 10, v: 10}}
  - {op: end, view: coronal, h: 1, v: 1}
  - {op: paint}
`

func replayTestScript(t *testing.T) (*viewsync.Controller, []StepError) {
	t.Helper()
	script, err := ParseScript([]byte(testScript))
	if err != nil {
		t.Fatalf("Failed to parse script: %v", err)
	}
	if script.Volume == nil || script.Volume.SizeX != 300 {
		t.Fatalf("Expected volume in script, got %+v", script.Volume)
	}
	if len(script.Events) != 11 {
		t.Fatalf("Expected 11 events, got %d", len(script.Events))
	}

	c, err := viewsync.New(*script.Volume, viewsync.Options{})
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	return c, Replay(c, script.Events)
}

func TestReplay(t *testing.T) {
	c, failed := replayTestScript(t)

	if len(failed) != 2 {
		t.Fatalf("Expected 2 rejected steps, got %v", failed)
	}
	if failed[0].Step != 9 || !errors.Is(failed[0], annotation.ErrNoDrag) {
		t.Errorf("Expected step 9 to fail with no drag, got %v", failed[0])
	}
	if failed[1].Step != 10 || !strings.Contains(failed[1].Error(), "unknown event") {
		t.Errorf("Expected step 10 to be unknown, got %v", failed[1])
	}

	want := roi.Bounds{XMin: 10, XMax: 50, YMin: 20, YMax: 80, ZMin: 15, ZMax: 65}
	if b, ok := c.Bounds(); !ok || b != want {
		t.Errorf("Expected bounds %s, got %s", want, b)
	}
	if n := len(c.Lines(models.Sagittal)); n != 1 {
		t.Errorf("Expected reversed duplicate to be ignored, got %d lines", n)
	}
}

func TestBuildReport(t *testing.T) {
	c, _ := replayTestScript(t)
	report := BuildReport(c.Snapshot(), c.Geometry())

	if report.Slices.Axial != 40 || report.Slices.Sagittal != 120 {
		t.Errorf("Unexpected slices %+v", report.Slices)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(report.Lines))
	}
	line := report.Lines[0]
	if line.Distance != 100 || math.Abs(line.LengthMM-50) > 1e-9 {
		t.Errorf("Expected 100 px / 50 mm, got %f px / %f mm", line.Distance, line.LengthMM)
	}

	if report.ROI == nil {
		t.Fatal("Expected ROI in report")
	}
	if report.ROI.MinMM != [3]float64{5, 10, 30} || report.ROI.MaxMM != [3]float64{25, 40, 130} {
		t.Errorf("Unexpected physical box %v %v", report.ROI.MinMM, report.ROI.MaxMM)
	}
}

func TestAddStats(t *testing.T) {
	vol := models.Volume{SizeX: 8, SizeY: 8, SizeZ: 8, SpacingX: 1, SpacingY: 1, SpacingZ: 1}
	data := make([]float64, 8*8*8)
	for i := range data {
		data[i] = 0.5
	}
	viewer, err := visualization.NewViewer(data, vol)
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}

	r := Report{}
	if err := r.AddStats(viewer); err != nil {
		t.Errorf("Expected no-op without ROI, got %v", err)
	}

	r.ROI = &ROIReport{Bounds: roi.Bounds{XMin: 1, XMax: 2, YMin: 1, YMax: 2, ZMin: 1, ZMax: 2}}
	if err := r.AddStats(viewer); err != nil {
		t.Fatalf("Failed to add stats: %v", err)
	}
	if r.ROI.Stats == nil || r.ROI.Stats.Voxels != 8 || r.ROI.Stats.Mean != 0.5 {
		t.Errorf("Unexpected stats %+v", r.ROI.Stats)
	}
}

func TestWriteReport(t *testing.T) {
	c, _ := replayTestScript(t)
	report := BuildReport(c.Snapshot(), c.Geometry())

	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	if err := WriteReport(report, path); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	text := string(data)
	for _, want := range []string{"view: sagittal", "view: axial", "lengthMM: 50", "zMax: 65"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected report to contain %q:\n%s", want, text)
		}
	}

	var decoded Report
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if decoded.ROI == nil || decoded.ROI.View != models.Axial || len(decoded.Lines) != 1 {
		t.Errorf("Unexpected decoded report %+v", decoded)
	}
}

func TestLoadScriptMissing(t *testing.T) {
	if _, err := LoadScript(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Expected error for missing script")
	}
	if _, err := ParseScript([]byte("events: {")); err == nil {
		t.Error("Expected parse error")
	}
	if _, err := ParseScript([]byte("events:\n  - {op: slice, view: transverse}\n")); err == nil {
		t.Error("Expected error for unknown view name")
	}
}

func TestResolveVolume(t *testing.T) {
	base := models.Volume{
		SizeX: 256, SizeY: 256, SizeZ: 128,
		SpacingX: 0.8, SpacingY: 0.8, SpacingZ: 3.0,
	}

	script, err := ParseScript([]byte("volume: {sizeX: 30, sizeY: 20, sizeZ: 10}\n"))
	if err != nil {
		t.Fatalf("Failed to parse script: %v", err)
	}
	vol := script.ResolveVolume(base)
	want := models.Volume{SizeX: 30, SizeY: 20, SizeZ: 10, SpacingX: 0.8, SpacingY: 0.8, SpacingZ: 3.0}
	if vol != want {
		t.Errorf("Expected %+v, got %+v", want, vol)
	}
	if _, err := viewsync.New(vol, viewsync.Options{}); err != nil {
		t.Errorf("Expected sizes-only volume to be usable, got %v", err)
	}

	script, _ = ParseScript([]byte("volume: {spacingZ: 1.5}\n"))
	if vol := script.ResolveVolume(base); vol.SizeX != 256 || vol.SpacingZ != 1.5 || vol.SpacingX != 0.8 {
		t.Errorf("Expected spacing-only override, got %+v", vol)
	}

	script, _ = ParseScript([]byte("events: []\n"))
	if vol := script.ResolveVolume(base); vol != base {
		t.Errorf("Expected base volume without override, got %+v", vol)
	}
}
