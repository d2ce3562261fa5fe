package viewsync

import (
	"orthosync/internal/models"
	"orthosync/pkg/annotation"
	"orthosync/pkg/roi"
)

// LinesUpdate asks a renderer to redraw the measurement overlay of one view
type LinesUpdate struct {
	View models.ViewKind

	// Lines are the segments authored in View
	Lines []annotation.LineSegment

	// Corresponding are projections of segments authored in the other views
	Corresponding []annotation.CorrespondingLine
}

// ROIUpdate reports a change of the region of interest
type ROIUpdate struct {
	// View is the view holding the rectangle, valid when Active or Pending is set
	View models.ViewKind

	Active bool
	Bounds roi.Bounds
	Rect   roi.Rect
	Depth  roi.DepthRange

	// Pending is the rectangle being dragged, if any
	Pending *roi.Rect

	// Err is set when the last ROI operation was rejected. Bounds then
	// still hold the last good ROI.
	Err error
}

// Observer receives change notifications from a Controller
type Observer interface {
	LinesChanged(LinesUpdate)
	ROIChanged(ROIUpdate)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Lines func(LinesUpdate)
	ROI   func(ROIUpdate)
}

func (o ObserverFuncs) LinesChanged(u LinesUpdate) {
	if o.Lines != nil {
		o.Lines(u)
	}
}

func (o ObserverFuncs) ROIChanged(u ROIUpdate) {
	if o.ROI != nil {
		o.ROI(u)
	}
}
