package reanim

import (
	"fmt"
	"math"
	"strings"

	"github.com/gonewx/actoranim/pkg/animation"
)

// Part is one sprite part converted to keyframe tracks.
type Part struct {
	Name   string
	Tracks []*animation.Track
}

// Track returns the part's track for p, or nil when the part never sets p.
func (pt *Part) Track(p animation.Property) *animation.Track {
	for _, t := range pt.Tracks {
		if t.Property() == p {
			return t
		}
	}
	return nil
}

// channel samples one property from a frame. ok is false when the frame does
// not set it.
type channel struct {
	property animation.Property
	initial  float64
	sample   func(f *Frame) (v float64, ok bool)
}

func field(get func(f *Frame) *float64, scale float64) func(f *Frame) (float64, bool) {
	return func(f *Frame) (float64, bool) {
		if v := get(f); v != nil {
			return *v * scale, true
		}
		return 0, false
	}
}

var channels = []channel{
	{animation.PropertyPosX, 0, field(func(f *Frame) *float64 { return f.X }, 1)},
	{animation.PropertyPosY, 0, field(func(f *Frame) *float64 { return f.Y }, 1)},
	{animation.PropertyScaleX, 1, field(func(f *Frame) *float64 { return f.ScaleX }, 1)},
	{animation.PropertyScaleY, 1, field(func(f *Frame) *float64 { return f.ScaleY }, 1)},
	{animation.PropertyRotation, 0, field(func(f *Frame) *float64 { return f.SkewX }, math.Pi/180)},
}

// IsPartTrack reports whether t animates a sprite part rather than defining
// an animation range.
func IsPartTrack(t *Track) bool {
	return t.Name != "" && !strings.HasPrefix(t.Name, "anim_")
}

// Convert turns every part track of rx into linear keyframe tracks linked by
// loader. Frame i is placed at time i/FPS. Properties a part never sets get no
// track, and samples inside a run of equal values are dropped.
func Convert(rx *ReanimXML, loader *animation.Loader) ([]Part, error) {
	if rx.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps %d", rx.FPS)
	}

	var parts []Part
	for i := range rx.Tracks {
		src := &rx.Tracks[i]
		if !IsPartTrack(src) {
			continue
		}
		part := Part{Name: src.Name}
		for _, ch := range channels {
			samples, ok := sampleChannel(src.Frames, ch.initial, ch.sample)
			if !ok {
				continue
			}
			t, err := buildTrack(loader, ch.property, samples, rx.FPS)
			if err != nil {
				return nil, fmt.Errorf("part '%s': %w", src.Name, err)
			}
			part.Tracks = append(part.Tracks, t)
		}
		if samples, ok := sampleOpacity(src.Frames); ok {
			t, err := buildTrack(loader, animation.PropertyOpacity, samples, rx.FPS)
			if err != nil {
				return nil, fmt.Errorf("part '%s': %w", src.Name, err)
			}
			part.Tracks = append(part.Tracks, t)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// sampleChannel resolves inheritance and returns one value per frame. ok is
// false when no frame sets the channel.
func sampleChannel(frames []Frame, initial float64, sample func(*Frame) (float64, bool)) ([]float64, bool) {
	out := make([]float64, len(frames))
	cur, seen := initial, false
	for i := range frames {
		if v, ok := sample(&frames[i]); ok {
			cur, seen = v, true
		}
		out[i] = cur
	}
	return out, seen
}

// sampleOpacity combines alpha with visibility: hidden frames are fully
// transparent.
func sampleOpacity(frames []Frame) ([]float64, bool) {
	out := make([]float64, len(frames))
	alpha, visible, seen := 1.0, true, false
	for i := range frames {
		f := &frames[i]
		if f.Alpha != nil {
			alpha, seen = *f.Alpha, true
		}
		if f.FrameNum != nil {
			visible, seen = *f.FrameNum >= 0, true
		}
		out[i] = alpha
		if !visible {
			out[i] = 0
		}
	}
	return out, seen
}

// buildTrack keeps the first and last sample and every sample that differs
// from a neighbor, which leaves linear playback unchanged.
func buildTrack(loader *animation.Loader, p animation.Property, samples []float64, fps int) (*animation.Track, error) {
	frames := make([]animation.KeyFrame, 0, len(samples))
	last := len(samples) - 1
	for i, v := range samples {
		if i > 0 && i < last && samples[i-1] == v && samples[i+1] == v {
			continue
		}
		time := float32(i) / float32(fps)
		frames = append(frames, animation.NewNumericKeyFrame(p, time, animation.InterpolationLinear, float32(v)))
	}
	return loader.NewTrack(p, frames)
}
