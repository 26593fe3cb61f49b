package reanim

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gonewx/actoranim/pkg/animation"
	"github.com/gonewx/actoranim/pkg/scene"
)

func loadBlink(t *testing.T) []Part {
	t.Helper()
	rx, err := ParseFile("testdata/Blink.reanim")
	if err != nil {
		t.Fatalf("Failed to parse Blink.reanim: %v", err)
	}
	parts, err := Convert(rx, animation.NewLoader(nil))
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	return parts
}

func keyTimes(track *animation.Track) []float32 {
	var out []float32
	for _, k := range track.Frames() {
		out = append(out, k.Time())
	}
	return out
}

// TestParseFile tests decoding of a root-less Reanim file.
func TestParseFile(t *testing.T) {
	rx, err := ParseFile("testdata/Blink.reanim")
	if err != nil {
		t.Fatalf("Failed to parse Blink.reanim: %v", err)
	}
	if rx.FPS != 10 {
		t.Errorf("Expected FPS=10, got %d", rx.FPS)
	}
	if len(rx.Tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(rx.Tracks))
	}

	head := rx.Tracks[1]
	if len(head.Frames) != 5 {
		t.Fatalf("Expected 5 head frames, got %d", len(head.Frames))
	}
	if head.Frames[0].ImagePath != "IMAGE_REANIM_HEAD" {
		t.Errorf("Expected image IMAGE_REANIM_HEAD, got %q", head.Frames[0].ImagePath)
	}
	if head.Frames[1].X != nil {
		t.Error("Empty frame should leave X nil")
	}
	if head.Frames[4].FrameNum == nil || *head.Frames[4].FrameNum != -1 {
		t.Error("Expected f=-1 on the last head frame")
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("<track><name>x</track>")); err == nil || !strings.Contains(err.Error(), "failed to parse XML") {
		t.Errorf("Expected XML error, got %v", err)
	}
	if _, err := ParseFile("testdata/NonExistent.reanim"); err == nil || !strings.Contains(err.Error(), "failed to read reanim file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

// TestConvert_Parts tests that only part tracks are converted and unset
// properties get no track.
func TestConvert_Parts(t *testing.T) {
	parts := loadBlink(t)

	if len(parts) != 2 || parts[0].Name != "head" || parts[1].Name != "stem" {
		t.Fatalf("Expected parts [head stem], got %+v", parts)
	}

	head := parts[0]
	if len(head.Tracks) != 2 {
		t.Errorf("Expected posx and opacity tracks on head, got %d tracks", len(head.Tracks))
	}
	if head.Track(animation.PropertyPosY) != nil {
		t.Error("head never sets y and should have no posy track")
	}
}

// TestConvert_DropsConstantRuns tests keyframe reduction.
func TestConvert_DropsConstantRuns(t *testing.T) {
	head := loadBlink(t)[0]

	posx := head.Track(animation.PropertyPosX)
	if posx == nil {
		t.Fatal("Expected a posx track")
	}
	want := []float32{0, 0.2, 0.3, 0.4}
	if diff := cmp.Diff(want, keyTimes(posx), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("posx keyframe times mismatch (-want +got):\n%s", diff)
	}

	opacity := head.Track(animation.PropertyOpacity)
	if opacity == nil {
		t.Fatal("Expected an opacity track")
	}
	want = []float32{0, 0.3, 0.4}
	if diff := cmp.Diff(want, keyTimes(opacity), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("opacity keyframe times mismatch (-want +got):\n%s", diff)
	}
}

// TestConvert_Playback tests that the converted tracks reproduce the samples.
func TestConvert_Playback(t *testing.T) {
	head := loadBlink(t)[0]
	node := scene.NewNode("head")

	tests := []struct {
		time    float32
		posx    float32
		opacity float32
	}{
		{0, 0, 1},
		{0.1, 0, 1},
		{0.25, 1.5, 1},
		{0.3, 3, 1},
		{0.4, 3, 0},
		{1, 3, 0},
	}

	for _, tt := range tests {
		for _, track := range head.Tracks {
			track.Apply(node, tt.time, 1)
		}
		if math.Abs(float64(node.X()-tt.posx)) > 1e-4 {
			t.Errorf("time %v: Expected posx %v, got %v", tt.time, tt.posx, node.X())
		}
		if math.Abs(float64(node.Opacity()-tt.opacity)) > 1e-4 {
			t.Errorf("time %v: Expected opacity %v, got %v", tt.time, tt.opacity, node.Opacity())
		}
	}
}

// TestConvert_RotationAndScale tests degree conversion and scale channels.
func TestConvert_RotationAndScale(t *testing.T) {
	stem := loadBlink(t)[1]

	rotation := stem.Track(animation.PropertyRotation)
	if rotation == nil {
		t.Fatal("Expected a rotation track")
	}
	frames := rotation.Frames()
	if len(frames) != 2 {
		t.Fatalf("Expected 2 rotation keyframes, got %d", len(frames))
	}
	if math.Abs(float64(frames[0].Value())-math.Pi/2) > 1e-6 {
		t.Errorf("Expected pi/2, got %v", frames[0].Value())
	}
	if math.Abs(float64(frames[1].Value())-math.Pi/4) > 1e-6 {
		t.Errorf("Expected pi/4, got %v", frames[1].Value())
	}

	if stem.Track(animation.PropertyScaleX) == nil {
		t.Error("Expected a scalex track")
	}
	if stem.Track(animation.PropertyScaleY) != nil {
		t.Error("stem never sets sy and should have no scaley track")
	}
	if op := stem.Track(animation.PropertyOpacity); op == nil || op.Frames()[0].Value() != 0.5 {
		t.Error("Expected opacity 0.5 from alpha")
	}
}

func TestConvert_InvalidFPS(t *testing.T) {
	rx := &ReanimXML{FPS: 0, Tracks: []Track{{Name: "head", Frames: make([]Frame, 2)}}}
	if _, err := Convert(rx, animation.NewLoader(nil)); err == nil {
		t.Error("Expected error for fps 0, got nil")
	}
}

func TestIsPartTrack(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"head", true},
		{"anim_idle", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPartTrack(&Track{Name: tt.name}); got != tt.want {
			t.Errorf("IsPartTrack(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
