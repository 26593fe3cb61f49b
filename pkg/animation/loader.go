package animation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gonewx/actoranim/pkg/binio"
	"github.com/gonewx/actoranim/pkg/scene"
)

// ErrInvalidFormat is returned (wrapped) for any track data that cannot be
// decoded: truncated input, unknown codes, unsorted keyframes or a target
// node that cannot host the track.
var ErrInvalidFormat = errors.New("invalid keyframe data")

func errFormat(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...))
}

func errRead(field string, err error) error {
	return fmt.Errorf("%w: reading %s: %w", ErrInvalidFormat, field, err)
}

// Loader decodes keyframes and tracks and performs the link pass.
type Loader struct {
	curves      CurveInterpolator
	progression ProgressionPolicy
	log         *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithProgression sets how Progression segments evaluate.
func WithProgression(p ProgressionPolicy) LoaderOption {
	return func(l *Loader) { l.progression = p }
}

// WithLogger sets the logger, nil disables logging.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader returns a Loader that reads and binds curve data through curves.
func NewLoader(curves CurveInterpolator, opts ...LoaderOption) *Loader {
	l := &Loader{curves: curves, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ReadKeyFrame decodes one keyframe of property p. node is the track target;
// vertex deform keyframes take their size from it and mark it as animated.
// Nothing is returned unless the whole keyframe decodes.
func (l *Loader) ReadKeyFrame(r *binio.Reader, p Property, node scene.Node) (KeyFrame, error) {
	if !p.Valid() {
		return KeyFrame{}, errFormat("unknown property code %d", uint8(p))
	}

	t, err := r.ReadFloat64()
	if err != nil {
		return KeyFrame{}, errRead("time", err)
	}
	k := KeyFrame{time: float32(t), property: p, progression: l.progression}

	if p.interpolated() {
		code, err := r.ReadUint8()
		if err != nil {
			return KeyFrame{}, errRead("interpolation type", err)
		}
		kind := InterpolationType(code)
		if !kind.Valid() {
			return KeyFrame{}, errFormat("unknown interpolation type %d at time %g", code, t)
		}
		k.interpolation = kind

		if kind.hasControl() {
			if l.curves == nil {
				return KeyFrame{}, errFormat("%s keyframe needs a curve interpolator", kind)
			}
			c, err := l.curves.ReadControl(r, kind)
			if err != nil {
				return KeyFrame{}, errRead("curve control", err)
			}
			k.control, k.hasControl = c, true
		}
	}

	switch {
	case p.IsNumeric():
		if k.value, err = r.ReadFloat32(); err != nil {
			return KeyFrame{}, errRead("value", err)
		}
	case p == PropertyDrawOrder:
		if k.drawOrder, err = readDrawOrder(r); err != nil {
			return KeyFrame{}, err
		}
	case p == PropertyVertexDeform:
		img, ok := node.(scene.Image)
		if !ok {
			return KeyFrame{}, errFormat("vertex deform track targets a node without vertices")
		}
		k.vertices = make([]float32, img.VertexCount()*2)
		if err := r.ReadFloat32s(k.vertices); err != nil {
			return KeyFrame{}, errRead("vertices", err)
		}
		img.SetAnimatesVertexDeform(true)
	}
	return k, nil
}

func readDrawOrder(r *binio.Reader) ([]DrawOrderEntry, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, errRead("draw order count", err)
	}
	entries := make([]DrawOrderEntry, n)
	for i := range entries {
		if entries[i].NodeIndex, err = r.ReadUint16(); err != nil {
			return nil, errRead("draw order node", err)
		}
		if entries[i].Order, err = r.ReadUint16(); err != nil {
			return nil, errRead("draw order value", err)
		}
	}
	return entries, nil
}

// ReadTrack decodes a uint16 keyframe count followed by that many keyframes
// of property p, then links them. On error no track is returned.
func (l *Loader) ReadTrack(r *binio.Reader, p Property, node scene.Node) (*Track, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, errRead("keyframe count", err)
	}
	frames := make([]KeyFrame, n)
	for i := range frames {
		if frames[i], err = l.ReadKeyFrame(r, p, node); err != nil {
			return nil, fmt.Errorf("keyframe %d of %s track: %w", i, p, err)
		}
	}
	t, err := l.NewTrack(p, frames)
	if err != nil {
		return nil, err
	}
	l.log.Debug("Track loaded", zap.Stringer("property", p), zap.Int("keyframes", len(frames)), zap.Float32("duration", t.Duration()))
	return t, nil
}

// NewTrack validates that frames all belong to p and are sorted by time,
// links them and returns the track. frames is owned by the track afterwards.
func (l *Loader) NewTrack(p Property, frames []KeyFrame) (*Track, error) {
	for i := range frames {
		if frames[i].property != p {
			return nil, errFormat("keyframe %d is %s, track is %s", i, frames[i].property, p)
		}
		if i > 0 && frames[i].time < frames[i-1].time {
			return nil, errFormat("keyframe %d at %g precedes keyframe %d at %g", i, frames[i].time, i-1, frames[i-1].time)
		}
	}
	l.Link(frames)
	return &Track{property: p, frames: frames}, nil
}

// Link runs the binding pass over consecutive keyframes. Each keyframe is
// bound against its successor; the last one has none, so a curve on it never
// binds.
func (l *Loader) Link(frames []KeyFrame) {
	for i := range frames {
		var next *KeyFrame
		if i+1 < len(frames) {
			next = &frames[i+1]
		}
		l.linkNext(&frames[i], next)
	}
}

func (l *Loader) linkNext(k, next *KeyFrame) {
	// draw order and vertex deform keep their state regardless of successor
	if !k.property.IsNumeric() {
		return
	}
	k.progression = l.progression
	k.curve = nil
	if !k.hasControl || l.curves == nil {
		return
	}
	if next == nil || !next.property.IsNumeric() {
		l.degraded(k, "no numeric successor")
		return
	}

	seg := Segment{
		Kind:       k.interpolation,
		Control:    k.control,
		StartTime:  k.time,
		StartValue: k.value,
		EndTime:    next.time,
		EndValue:   next.value,
	}
	if next.hasControl {
		nc := next.control
		seg.NextControl = &nc
	}
	c, ok := l.curves.Bind(seg)
	if !ok {
		l.degraded(k, "binding rejected")
		return
	}
	k.curve = c
}

func (l *Loader) degraded(k *KeyFrame, reason string) {
	if !k.interpolation.IsCurve() {
		return
	}
	l.log.Debug("Curve binding dropped, segment falls back to linear",
		zap.Stringer("property", k.property),
		zap.Float32("time", k.time),
		zap.Stringer("interpolation", k.interpolation),
		zap.String("reason", reason))
}
