// Package session replays recorded UI events against a controller and
// writes the resulting measurements and ROI as a YAML report.
package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orthosync/internal/models"
	"orthosync/pkg/viewsync"
)

// Script is a recorded interaction session
type Script struct {
	// Volume overrides the configured volume field by field; zero or
	// missing fields keep the configured value
	Volume *models.Volume `yaml:"volume,omitempty"`

	Events []Event `yaml:"events"`
}

// Event is one recorded UI event. Op selects which fields are used:
//
//	mode      Mode
//	slice     View, Slice
//	begin     View, H, V
//	update    View, H, V
//	end       View, H, V
//	drag      View, H, V, To (begin, update, end in one step)
//	depth     Min, Max
//	remove    View, Index
//	clear     -
//	clearROI  -
type Event struct {
	Op    string          `yaml:"op"`
	View  models.ViewKind `yaml:"view"`
	Mode  string          `yaml:"mode"`
	Slice int             `yaml:"slice"`
	H     int             `yaml:"h"`
	V     int             `yaml:"v"`
	To    *models.Point2D `yaml:"to"`
	Min   int             `yaml:"min"`
	Max   int             `yaml:"max"`
	Index int             `yaml:"index"`
}

// ResolveVolume returns base with every non-zero size and spacing of the
// script's volume applied on top
func (s *Script) ResolveVolume(base models.Volume) models.Volume {
	if s.Volume == nil {
		return base
	}
	v := *s.Volume
	vol := base
	for _, f := range []struct {
		dst *int
		src int
	}{{&vol.SizeX, v.SizeX}, {&vol.SizeY, v.SizeY}, {&vol.SizeZ, v.SizeZ}} {
		if f.src != 0 {
			*f.dst = f.src
		}
	}
	for _, f := range []struct {
		dst *float64
		src float64
	}{{&vol.SpacingX, v.SpacingX}, {&vol.SpacingY, v.SpacingY}, {&vol.SpacingZ, v.SpacingZ}} {
		if f.src != 0 {
			*f.dst = f.src
		}
	}
	return vol
}

// StepError records an event the controller rejected
type StepError struct {
	Step int
	Op   string
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Op, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}

// LoadScript reads a session script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading session file: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML session script
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error parsing session: %w", err)
	}
	return &s, nil
}

// Replay feeds events to c in order. Rejected events are collected and the
// replay continues, the same way a UI keeps running after reporting them.
func Replay(c *viewsync.Controller, events []Event) []StepError {
	var failed []StepError
	for i, ev := range events {
		if err := apply(c, ev); err != nil {
			failed = append(failed, StepError{Step: i, Op: ev.Op, Err: err})
		}
	}
	return failed
}

func apply(c *viewsync.Controller, ev Event) error {
	p := models.Point2D{H: ev.H, V: ev.V}
	switch ev.Op {
	case "mode":
		mode, err := viewsync.ParseMode(ev.Mode)
		if err != nil {
			return err
		}
		return c.SetMode(mode)
	case "slice":
		return c.OnViewSliceChanged(ev.View, ev.Slice)
	case "begin":
		return c.BeginDrag(ev.View, p)
	case "update":
		return c.UpdateDrag(ev.View, p)
	case "end":
		return c.EndDrag(ev.View, p)
	case "drag":
		if ev.To == nil {
			return fmt.Errorf("drag event needs a 'to' point")
		}
		if err := c.BeginDrag(ev.View, p); err != nil {
			return err
		}
		if err := c.UpdateDrag(ev.View, *ev.To); err != nil {
			return err
		}
		return c.EndDrag(ev.View, *ev.To)
	case "depth":
		return c.SetDepthRange(ev.Min, ev.Max)
	case "remove":
		return c.RemoveLine(ev.View, ev.Index)
	case "clear":
		c.ClearAll()
		return nil
	case "clearROI":
		c.ClearROI()
		return nil
	}
	return fmt.Errorf("unknown event %q", ev.Op)
}
