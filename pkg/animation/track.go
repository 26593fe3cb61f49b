package animation

import (
	"sort"

	"github.com/gonewx/actoranim/pkg/scene"
)

// Track is a linked, time-ordered keyframe list for one property.
type Track struct {
	property Property
	frames   []KeyFrame
}

func (t *Track) Property() Property { return t.property }

// Frames returns the keyframes. Callers must not modify them.
func (t *Track) Frames() []KeyFrame { return t.frames }

// Duration returns the time of the last keyframe.
func (t *Track) Duration() float32 {
	if len(t.frames) == 0 {
		return 0
	}
	return t.frames[len(t.frames)-1].time
}

// Apply evaluates the track at time onto node, blended by mix. Before the
// first keyframe the first one is applied, after the last keyframe the last
// one; a time that lands on a keyframe applies that keyframe.
func (t *Track) Apply(node scene.Node, time, mix float32) {
	n := len(t.frames)
	if n == 0 {
		return
	}
	idx := sort.Search(n, func(i int) bool { return t.frames[i].time >= time })
	switch {
	case idx == 0:
		t.frames[0].Apply(node, mix)
	case idx == n:
		t.frames[n-1].Apply(node, mix)
	case t.frames[idx].time == time:
		t.frames[idx].Apply(node, mix)
	default:
		t.frames[idx-1].ApplyInterpolation(node, time, &t.frames[idx], mix)
	}
}
