package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"orthosync/internal/models"
	"orthosync/pkg/annotation"
	"orthosync/pkg/geometry"
	"orthosync/pkg/roi"
	"orthosync/pkg/viewsync"
	"orthosync/pkg/visualization"
)

// Report is the exported result of a session
type Report struct {
	Volume models.Volume `yaml:"volume"`
	Slices SliceReport   `yaml:"slices"`
	Lines  []LineReport  `yaml:"lines"`
	ROI    *ROIReport    `yaml:"roi,omitempty"`
}

// SliceReport holds the final slice index of each view
type SliceReport struct {
	Axial    int `yaml:"axial"`
	Sagittal int `yaml:"sagittal"`
	Coronal  int `yaml:"coronal"`
}

// LineReport is one measurement with its physical length
type LineReport struct {
	annotation.LineSegment `yaml:",inline"`

	// LengthMM scales each axis by the voxel spacing
	LengthMM float64 `yaml:"lengthMM"`
}

// ROIReport describes the region of interest in voxels and millimetres
type ROIReport struct {
	View   models.ViewKind `yaml:"view"`
	Rect   roi.Rect        `yaml:"rect"`
	Depth  roi.DepthRange  `yaml:"depth"`
	Bounds roi.Bounds      `yaml:"bounds"`
	MinMM  [3]float64      `yaml:"minMM,flow"`
	MaxMM  [3]float64      `yaml:"maxMM,flow"`

	// Stats is set when voxel data was available
	Stats *visualization.RegionStats `yaml:"stats,omitempty"`
}

// BuildReport turns a controller snapshot into a report
func BuildReport(snap viewsync.Snapshot, geom *geometry.VolumeGeometry) Report {
	r := Report{
		Volume: snap.Volume,
		Slices: SliceReport{
			Axial:    snap.Slices[models.Axial],
			Sagittal: snap.Slices[models.Sagittal],
			Coronal:  snap.Slices[models.Coronal],
		},
		Lines: []LineReport{},
	}

	for _, v := range models.Views {
		for _, seg := range snap.Lines[v] {
			r.Lines = append(r.Lines, LineReport{
				LineSegment: seg,
				LengthMM:    annotation.PhysicalLength(seg, geom),
			})
		}
	}

	if snap.ROI != nil {
		box := snap.ROI.Bounds.Box(geom.Spacings())
		r.ROI = &ROIReport{
			View:   snap.ROI.View,
			Rect:   snap.ROI.Rect,
			Depth:  snap.ROI.Depth,
			Bounds: snap.ROI.Bounds,
			MinMM:  [3]float64{box.Min.X, box.Min.Y, box.Min.Z},
			MaxMM:  [3]float64{box.Max.X, box.Max.Y, box.Max.Z},
		}
	}
	return r
}

// AddStats attaches intensity statistics of the ROI computed by viewer
func (r *Report) AddStats(viewer *visualization.Viewer) error {
	if r.ROI == nil {
		return nil
	}
	stats, err := viewer.RegionStats(r.ROI.Bounds)
	if err != nil {
		return err
	}
	r.ROI.Stats = &stats
	return nil
}

// WriteReport saves r as YAML at path
func WriteReport(r Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}
