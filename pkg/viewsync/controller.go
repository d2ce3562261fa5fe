// Package viewsync coordinates the axial, sagittal and coronal views of one
// volume: it routes pointer drags to the measurement store or the ROI
// selector, keeps slice indices in step and notifies observers.
package viewsync

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"orthosync/internal/models"
	"orthosync/pkg/annotation"
	"orthosync/pkg/axismap"
	"orthosync/pkg/geometry"
	"orthosync/pkg/roi"
)

var (
	// ErrInvalidMode is returned by SetMode for an unknown mode
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidView is returned for an event tagged with an unknown view
	ErrInvalidView = errors.New("invalid view")
)

// Mode selects what a pointer drag does
type Mode int

const (
	// ModeNone moves the other views' slices to follow the pointer
	ModeNone Mode = iota
	ModeMeasuring
	ModeSelectingROI
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeMeasuring:
		return "measuring"
	case ModeSelectingROI:
		return "roi"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name into a Mode
func ParseMode(name string) (Mode, error) {
	switch name {
	case "none", "":
		return ModeNone, nil
	case "measuring", "measure", "line":
		return ModeMeasuring, nil
	case "roi", "selecting", "selectingROI":
		return ModeSelectingROI, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Options configures a Controller
type Options struct {
	// HalfWidth is the ROI depth window half-width, DefaultHalfWidth when zero
	HalfWidth int

	// Tolerance is the duplicate line tolerance, DefaultTolerance when zero
	Tolerance float64

	// SyncSlicesOnROI moves the other two views to the ROI centre once a
	// rectangle is recorded
	SyncSlicesOnROI bool

	// Slices reads and moves view sliders; an in-memory SliceState when nil
	Slices SliceControl

	// Logger receives diagnostic messages; discarded when nil
	Logger *log.Logger
}

// Controller owns the measurement store and ROI selector for one dataset
type Controller struct {
	volume models.Volume
	geom   *geometry.VolumeGeometry
	lines  *annotation.Store
	roi    *roi.Selector
	slices SliceControl
	logger *log.Logger

	syncOnROI bool
	mode      Mode
	observers []Observer

	// roiStart is the corner of the rectangle being dragged, per view
	roiStart [3]*models.Point2D
}

// New creates a controller for a volume with the given extents
func New(vol models.Volume, opts Options) (*Controller, error) {
	geom, err := geometry.New(vol)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		volume:    vol,
		geom:      geom,
		lines:     annotation.NewStore(geom, opts.Tolerance),
		roi:       roi.NewSelector(geom, opts.HalfWidth),
		slices:    opts.Slices,
		logger:    opts.Logger,
		syncOnROI: opts.SyncSlicesOnROI,
	}
	if c.slices == nil {
		c.slices = NewSliceState(vol)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c, nil
}

// Subscribe registers an observer for change notifications
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Geometry returns the volume geometry
func (c *Controller) Geometry() *geometry.VolumeGeometry {
	return c.geom
}

// Mode returns the current interaction mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches the interaction mode. Drags in progress are discarded.
// Entering ModeSelectingROI always clears the existing ROI.
func (c *Controller) SetMode(mode Mode) error {
	if mode < ModeNone || mode > ModeSelectingROI {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if mode == c.mode {
		return nil
	}

	c.cancelDrags()
	prev := c.mode
	c.mode = mode
	c.logger.Printf("mode %s -> %s", prev, mode)

	if mode == ModeSelectingROI {
		c.roi.StartSelection()
		c.notifyROI(nil)
	}
	return nil
}

func (c *Controller) cancelDrags() {
	hadPreview := false
	for _, v := range models.Views {
		if c.lines.Dragging(v) {
			hadPreview = true
		}
		c.roiStart[v] = nil
	}
	c.lines.CancelAll()
	if hadPreview {
		c.notifyAllLines()
	}
	if c.roi.State() == roi.RectPending {
		c.roi.CancelRect()
		c.notifyROI(nil)
	}
}

// SliceIndex returns the current slice of view, clamped to the volume.
// An invalid view yields 0.
func (c *Controller) SliceIndex(view models.ViewKind) int {
	if !view.Valid() {
		return 0
	}
	return c.sliceOf(view)
}

// sliceOf reads the slider of view and keeps it inside the depth axis
func (c *Controller) sliceOf(view models.ViewKind) int {
	return c.geom.Clamp(axismap.For(view).Depth, c.slices.SliceIndex(view))
}

// BeginDrag starts a pointer drag in view
func (c *Controller) BeginDrag(view models.ViewKind, p models.Point2D) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidView, int(view))
	}

	switch c.mode {
	case ModeMeasuring:
		c.lines.BeginDrag(view, p)
	case ModeSelectingROI:
		p = c.clampPoint(view, p)
		c.roiStart[view] = &p
		_, hadROI := c.roi.View()
		c.roi.BeginRect(view)
		if hadROI {
			c.notifyROI(nil)
		}
	default:
		c.focus(view, p)
	}
	return nil
}

// UpdateDrag reports pointer motion during a drag in view
func (c *Controller) UpdateDrag(view models.ViewKind, p models.Point2D) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidView, int(view))
	}

	switch c.mode {
	case ModeMeasuring:
		if _, err := c.lines.UpdateDrag(view, p, c.sliceOf(view)); err != nil {
			return err
		}
		for _, other := range view.Others() {
			c.notifyLines(other)
		}
	case ModeSelectingROI:
		start := c.roiStart[view]
		if start == nil {
			return fmt.Errorf("%w in %s view", annotation.ErrNoDrag, view)
		}
		c.roi.UpdateRect(roi.RectFromPoints(*start, c.clampPoint(view, p)))
		c.notifyROI(nil)
	default:
		c.focus(view, p)
	}
	return nil
}

// EndDrag completes a drag in view, committing a measurement line or an ROI
// rectangle depending on the mode.
func (c *Controller) EndDrag(view models.ViewKind, p models.Point2D) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidView, int(view))
	}

	switch c.mode {
	case ModeMeasuring:
		seg, added, err := c.lines.EndDrag(view, p, c.sliceOf(view))
		if err != nil {
			return err
		}
		if added {
			c.logger.Printf("line added in %s view: %v-%v (%.2f px)", view, seg.Start, seg.End, seg.Distance)
		}
		c.notifyAllLines()
	case ModeSelectingROI:
		return c.endRect(view, p)
	default:
		c.focus(view, p)
	}
	return nil
}

func (c *Controller) endRect(view models.ViewKind, p models.Point2D) error {
	start := c.roiStart[view]
	if start == nil {
		return fmt.Errorf("%w in %s view", annotation.ErrNoDrag, view)
	}
	c.roiStart[view] = nil

	rect := roi.RectFromPoints(*start, c.clampPoint(view, p))
	b, err := c.roi.AddRect(view, rect, c.sliceOf(view))
	if err != nil {
		c.roi.CancelRect()
		c.logger.Printf("ROI rejected in %s view: %v", view, err)
		c.notifyROI(err)
		return err
	}

	c.logger.Printf("ROI set in %s view: %s", view, b)
	c.notifyROI(nil)
	if c.syncOnROI {
		c.centerOn(view, b)
	}
	return nil
}

// centerOn moves the views other than view to the middle of b
func (c *Controller) centerOn(view models.ViewKind, b roi.Bounds) {
	center := b.Center()
	voxel := [3]int{
		int(math.Round(center.X)),
		int(math.Round(center.Y)),
		int(math.Round(center.Z)),
	}
	for _, other := range view.Others() {
		_, slice := axismap.Drop(other, voxel)
		c.moveSlice(other, slice)
	}
}

// focus moves the other two views so they pass through p
func (c *Controller) focus(view models.ViewKind, p models.Point2D) {
	voxel := axismap.Lift(view, c.clampPoint(view, p), c.sliceOf(view))
	for _, other := range view.Others() {
		_, slice := axismap.Drop(other, voxel)
		c.moveSlice(other, slice)
	}
}

// moveSlice sets a view's slider programmatically and applies the change
func (c *Controller) moveSlice(view models.ViewKind, slice int) {
	if c.slices.SliceIndex(view) == slice {
		return
	}
	c.slices.SetSliceIndex(view, slice)
	c.sliceChanged(view, slice)
}

// OnViewSliceChanged is called when the user moves the slider of view
func (c *Controller) OnViewSliceChanged(view models.ViewKind, slice int) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidView, int(view))
	}
	slice = c.geom.Clamp(axismap.For(view).Depth, slice)
	if c.slices.SliceIndex(view) != slice {
		c.slices.SetSliceIndex(view, slice)
	}
	return c.sliceChanged(view, slice)
}

func (c *Controller) sliceChanged(view models.ViewKind, slice int) error {
	c.lines.Refresh(view)
	c.notifyLines(view)

	if c.mode != ModeSelectingROI {
		return nil
	}
	_, changed, err := c.roi.OnViewSliceChanged(view, slice)
	if err != nil {
		c.notifyROI(err)
		return err
	}
	if changed {
		c.notifyROI(nil)
	}
	return nil
}

// SetDepthRange overrides the depth window of the active ROI
func (c *Controller) SetDepthRange(min, max int) error {
	if _, err := c.roi.SetDepthRange(min, max); err != nil {
		c.notifyROI(err)
		return err
	}
	c.notifyROI(nil)
	return nil
}

// RemoveLine deletes one measurement authored in view
func (c *Controller) RemoveLine(view models.ViewKind, index int) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidView, int(view))
	}
	if err := c.lines.Remove(view, index); err != nil {
		return err
	}
	c.notifyAllLines()
	return nil
}

// ClearAll removes every measurement line
func (c *Controller) ClearAll() {
	c.lines.ClearAll()
	c.notifyAllLines()
}

// ClearROI discards the region of interest
func (c *Controller) ClearROI() {
	for _, v := range models.Views {
		c.roiStart[v] = nil
	}
	c.roi.Clear()
	c.notifyROI(nil)
}

// Lines returns the measurements authored in view, nil for an invalid view
func (c *Controller) Lines(view models.ViewKind) []annotation.LineSegment {
	return c.lines.Lines(view)
}

// Corresponding returns projections into view of lines drawn elsewhere,
// nil for an invalid view
func (c *Controller) Corresponding(view models.ViewKind) []annotation.CorrespondingLine {
	return c.lines.Corresponding(view)
}

// Bounds returns the current ROI box
func (c *Controller) Bounds() (roi.Bounds, bool) {
	return c.roi.Bounds()
}

// ROIRect returns the ROI rectangle if view holds it
func (c *Controller) ROIRect(view models.ViewKind) (roi.Rect, bool) {
	if !view.Valid() {
		return roi.Rect{}, false
	}
	return c.roi.Rect(view)
}

func (c *Controller) clampPoint(view models.ViewKind, p models.Point2D) models.Point2D {
	m := axismap.For(view)
	return models.Point2D{
		H: c.geom.Clamp(m.Horizontal, p.H),
		V: c.geom.Clamp(m.Vertical, p.V),
	}
}

func (c *Controller) notifyLines(view models.ViewKind) {
	if len(c.observers) == 0 {
		return
	}
	u := LinesUpdate{
		View:          view,
		Lines:         c.lines.Lines(view),
		Corresponding: c.lines.Corresponding(view),
	}
	for _, o := range c.observers {
		o.LinesChanged(u)
	}
}

func (c *Controller) notifyAllLines() {
	for _, v := range models.Views {
		c.notifyLines(v)
	}
}

func (c *Controller) notifyROI(err error) {
	if len(c.observers) == 0 {
		return
	}
	u := c.roiUpdate()
	u.Err = err
	for _, o := range c.observers {
		o.ROIChanged(u)
	}
}

func (c *Controller) roiUpdate() ROIUpdate {
	var u ROIUpdate
	u.View, _ = c.roi.View()
	u.Rect, u.Active = c.roi.Rect(u.View)
	u.Bounds, _ = c.roi.Bounds()
	u.Depth, _ = c.roi.DepthRange()
	if r, ok := c.roi.Preview(); ok {
		u.Pending = &r
	}
	return u
}
