package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gonewx/actoranim/internal/reanim"
	"github.com/gonewx/actoranim/pkg/animation"
	"github.com/gonewx/actoranim/pkg/binio"
	"github.com/gonewx/actoranim/pkg/render"
	"github.com/gonewx/actoranim/pkg/scene"
	"github.com/gonewx/actoranim/pkg/valuecurve"
)

var errNoInput = errors.New("no track files given")

// target is the reference actor a track is decoded and evaluated against.
type target struct {
	graph *scene.Graph
	node  scene.Node
	image *scene.ImageNode
}

// newTarget builds an actor that can receive every keyframe of p. Draw order
// tracks get nodes images, vertex deform tracks a single image with the given
// vertex count and other tracks a bone.
func newTarget(p animation.Property, vertices, nodes int) (*target, error) {
	t := &target{graph: scene.NewGraph()}
	switch p {
	case animation.PropertyDrawOrder:
		if nodes < 1 {
			return nil, fmt.Errorf("draworder target needs at least one node, got %d", nodes)
		}
		for i := 0; i < nodes; i++ {
			img := scene.NewImage(fmt.Sprintf("image%d", i), nil, nil, nil)
			t.graph.Add(img, scene.NoParent)
		}
		t.node, _ = t.graph.NodeAt(0)
	case animation.PropertyVertexDeform:
		if vertices < 0 {
			return nil, fmt.Errorf("vertex count must not be negative, got %d", vertices)
		}
		t.image = scene.NewImage("target", make([]float32, vertices*2), nil, nil)
		t.graph.Add(t.image, scene.NoParent)
		t.node = t.image
	default:
		bone := scene.NewBone("target", 0)
		t.graph.Add(bone, scene.NoParent)
		t.node = bone
	}
	return t, nil
}

// loadTrack decodes the track file at path against t.
func loadTrack(e *env, path string, p animation.Property, t *target) (*animation.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read track file '%s': %w", path, err)
	}

	log := e.log.With(zap.String("file", path))
	loader := animation.NewLoader(valuecurve.New(),
		animation.WithProgression(e.progression),
		animation.WithLogger(log))

	r := binio.NewReader(data)
	track, err := loader.ReadTrack(r, p, t.node)
	if err != nil {
		return nil, fmt.Errorf("unable to decode track file '%s': %w", path, err)
	}
	if r.Len() > 0 {
		log.Warn("Trailing data after track", zap.Int("bytes", r.Len()))
	}
	return track, nil
}

// trackArgs resolves the flags shared by all subcommands.
func trackArgs(cmd *cli.Command) (animation.Property, *target, error) {
	if cmd.NArg() == 0 {
		return 0, nil, errNoInput
	}
	p, err := animation.ParseProperty(cmd.String("property"))
	if err != nil {
		return 0, nil, err
	}
	t, err := newTarget(p, int(cmd.Int("vertices")), int(cmd.Int("nodes")))
	if err != nil {
		return 0, nil, err
	}
	return p, t, nil
}

func runFrames(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	p, t, err := trackArgs(cmd)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	for _, path := range cmd.Args().Slice() {
		track, er := loadTrack(e, path, p, t)
		if er != nil {
			err = multierr.Append(err, er)
			continue
		}
		fmt.Fprintf(w, "%s:\n", path)
		writeFrames(w, track)
	}
	return err
}

func runEval(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	p, _, err := trackArgs(cmd)
	if err != nil {
		return err
	}
	times := cmd.FloatSlice("time")
	if len(times) == 0 {
		return errors.New("at least one --time is required")
	}
	mix := float32(cmd.Float("mix"))
	if mix < 0 || mix > 1 {
		return fmt.Errorf("mix must be within [0, 1], got %g", mix)
	}

	w := cmd.Root().Writer
	for _, path := range cmd.Args().Slice() {
		// each file starts from a fresh actor
		t, er := newTarget(p, int(cmd.Int("vertices")), int(cmd.Int("nodes")))
		if er == nil {
			var track *animation.Track
			if track, er = loadTrack(e, path, p, t); er == nil {
				fmt.Fprintf(w, "%s:\n", path)
				for _, tm := range times {
					track.Apply(t.node, float32(tm), mix)
					writeState(w, float32(tm), p, t, cmd.Bool("world"))
				}
				continue
			}
		}
		err = multierr.Append(err, er)
	}
	return err
}

func runReanim(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if cmd.NArg() != 1 {
		return errors.New("exactly one reanim file expected")
	}
	path := cmd.Args().First()

	rx, err := reanim.ParseFile(path)
	if err != nil {
		return err
	}
	loader := animation.NewLoader(valuecurve.New(),
		animation.WithProgression(e.progression),
		animation.WithLogger(e.log.With(zap.String("file", path))))
	parts, err := reanim.Convert(rx, loader)
	if err != nil {
		return fmt.Errorf("unable to convert '%s': %w", path, err)
	}

	w := cmd.Root().Writer
	name, found := cmd.String("part"), false
	for _, part := range parts {
		if name != "" && part.Name != name {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s:\n", part.Name)
		for _, track := range part.Tracks {
			writeFrames(w, track)
		}
	}
	if name != "" && !found {
		return fmt.Errorf("part '%s' not found in '%s'", name, path)
	}
	e.log.Debug("Reanim converted", zap.String("file", path), zap.Int("fps", rx.FPS), zap.Int("parts", len(parts)))
	return nil
}

// writeFrames lists the keyframes of track, one per line.
func writeFrames(w io.Writer, track *animation.Track) {
	frames := track.Frames()
	fmt.Fprintf(w, "  property=%s keyframes=%d duration=%g\n", track.Property(), len(frames), track.Duration())
	for i := range frames {
		k := &frames[i]
		fmt.Fprintf(w, "  %3d t=%g", i, k.Time())
		switch {
		case k.Property().IsNumeric():
			fmt.Fprintf(w, " %s value=%g", k.InterpolationType(), k.Value())
			if k.Curve() != nil {
				fmt.Fprint(w, " curve")
			}
		case k.Property() == animation.PropertyDrawOrder:
			entries := make([]string, 0, len(k.DrawOrder()))
			for _, d := range k.DrawOrder() {
				entries = append(entries, fmt.Sprintf("%d:%d", d.NodeIndex, d.Order))
			}
			fmt.Fprintf(w, " order=[%s]", strings.Join(entries, " "))
		case k.Property() == animation.PropertyVertexDeform:
			fmt.Fprintf(w, " %s vertices=%d", k.InterpolationType(), len(k.Vertices())/2)
		}
		fmt.Fprintln(w)
	}
}

// writeState prints the evaluated state of t for property p.
func writeState(w io.Writer, time float32, p animation.Property, t *target, world bool) {
	fmt.Fprintf(w, "  t=%g", time)
	switch p {
	case animation.PropertyDrawOrder:
		for _, img := range t.graph.Images() {
			fmt.Fprintf(w, " %s=%d", img.Name(), img.DrawOrder())
		}
	case animation.PropertyVertexDeform:
		fmt.Fprint(w, " vertices=[")
		if world {
			t.graph.ComputeWorld()
			for i, v := range render.AppendDeformedVertices(nil, t.image, 1, 1) {
				if i > 0 {
					fmt.Fprint(w, " ")
				}
				fmt.Fprintf(w, "%g,%g", v.DstX, v.DstY)
			}
		} else {
			verts := t.image.RenderVertices()
			for i := 0; i+1 < len(verts); i += 2 {
				if i > 0 {
					fmt.Fprint(w, " ")
				}
				fmt.Fprintf(w, "%g,%g", verts[i], verts[i+1])
			}
		}
		fmt.Fprint(w, "]")
	default:
		v, _ := animation.NumericValue(t.node, p)
		fmt.Fprintf(w, " %s=%g", p, v)
	}
	fmt.Fprintln(w)
}
