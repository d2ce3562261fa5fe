package viewsync

import (
	"orthosync/internal/models"
	"orthosync/pkg/annotation"
	"orthosync/pkg/roi"
)

// Snapshot is the exportable state of a controller
type Snapshot struct {
	Volume models.Volume
	Slices [3]int
	Lines  [3][]annotation.LineSegment

	// ROI is nil when no region is active
	ROI *ROISnapshot
}

// ROISnapshot describes the active region of interest
type ROISnapshot struct {
	View   models.ViewKind
	Rect   roi.Rect
	Depth  roi.DepthRange
	Bounds roi.Bounds
}

// Snapshot copies the lines, slices and ROI for exporters
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{Volume: c.volume}
	for _, v := range models.Views {
		snap.Slices[v] = c.slices.SliceIndex(v)
		snap.Lines[v] = c.lines.Lines(v)
	}

	if view, ok := c.roi.View(); ok {
		if rect, active := c.roi.Rect(view); active {
			depth, _ := c.roi.DepthRange()
			b, _ := c.roi.Bounds()
			snap.ROI = &ROISnapshot{View: view, Rect: rect, Depth: depth, Bounds: b}
		}
	}
	return snap
}
