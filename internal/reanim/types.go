// Package reanim imports frame-sampled Reanim animation files and converts
// their part tracks into keyframe tracks.
package reanim

// ReanimXML is the root structure of a Reanim animation file.
type ReanimXML struct {
	// FPS is the sampling rate of every track, typically 12
	FPS int `xml:"fps"`

	// Tracks holds animation definition tracks (names starting with "anim_")
	// and part tracks (e.g. "head", "body").
	Tracks []Track `xml:"track"`
}

// Track is one named sequence of frames, one frame per sample.
type Track struct {
	Name   string  `xml:"name"`
	Frames []Frame `xml:"t"`
}

// Frame is a single sample. A nil field inherits the value of the previous
// frame of the same track.
type Frame struct {
	// FrameNum is -1 when the part is hidden, 0 or positive when shown
	FrameNum *int `xml:"f,omitempty"`

	X      *float64 `xml:"x,omitempty"`
	Y      *float64 `xml:"y,omitempty"`
	ScaleX *float64 `xml:"sx,omitempty"`
	ScaleY *float64 `xml:"sy,omitempty"`

	// SkewX is the rotation of the x axis in degrees.
	SkewX *float64 `xml:"kx,omitempty"`

	// SkewY is the rotation of the y axis in degrees. Only SkewX is
	// converted, keyframe tracks carry a single rotation.
	SkewY *float64 `xml:"ky,omitempty"`

	Alpha *float64 `xml:"a,omitempty"`

	ImagePath string `xml:"i,omitempty"`
}
