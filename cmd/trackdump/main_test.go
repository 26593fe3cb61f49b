package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/gonewx/actoranim/pkg/animation"
	"github.com/gonewx/actoranim/pkg/binio"
)

func writeTrackFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.bin")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write track file: %v", err)
	}
	return path
}

// linearTrack encodes posx going from 0 to 10 over two seconds.
func linearTrack() []byte {
	w := &binio.Writer{}
	w.WriteUint16(2)
	w.WriteFloat64(0).WriteUint8(uint8(animation.InterpolationLinear)).WriteFloat32(0)
	w.WriteFloat64(2).WriteUint8(uint8(animation.InterpolationLinear)).WriteFloat32(10)
	return w.Bytes()
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(context.Background(), append([]string{"trackdump"}, args...))
	return out.String(), err
}

func TestEval_Numeric(t *testing.T) {
	path := writeTrackFile(t, linearTrack())

	out, err := runApp(t, "eval", "--property", "posx", "--time", "1", "--time", "3", path)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !strings.Contains(out, "t=1 posx=5\n") {
		t.Errorf("Expected midpoint value in output, got:\n%s", out)
	}
	if !strings.Contains(out, "t=3 posx=10\n") {
		t.Errorf("Expected last value past the end, got:\n%s", out)
	}
}

func TestEval_DrawOrder(t *testing.T) {
	w := &binio.Writer{}
	w.WriteUint16(1)
	w.WriteFloat64(0).WriteUint16(2).WriteUint16(1).WriteUint16(4).WriteUint16(0).WriteUint16(9)
	path := writeTrackFile(t, w.Bytes())

	out, err := runApp(t, "eval", "-p", "draworder", "--nodes", "2", "-t", "0", path)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !strings.Contains(out, "image0=9 image1=4") {
		t.Errorf("Expected draw orders in output, got:\n%s", out)
	}
}

func TestEval_VertexDeform(t *testing.T) {
	w := &binio.Writer{}
	w.WriteUint16(1)
	w.WriteFloat64(0).WriteUint8(uint8(animation.InterpolationLinear)).WriteFloat32s(1, 2, 3, 4)
	path := writeTrackFile(t, w.Bytes())

	out, err := runApp(t, "eval", "-p", "vertexdeform", "--vertices", "2", "-t", "0", path)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !strings.Contains(out, "vertices=[1,2 3,4]") {
		t.Errorf("Expected deformed vertices in output, got:\n%s", out)
	}
}

func TestFrames(t *testing.T) {
	path := writeTrackFile(t, linearTrack())

	out, err := runApp(t, "frames", "-p", "posx", path)
	if err != nil {
		t.Fatalf("frames failed: %v", err)
	}
	for _, want := range []string{"keyframes=2 duration=2", "0 t=0 linear value=0", "1 t=2 linear value=10"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestFrames_CollectsErrors(t *testing.T) {
	good := writeTrackFile(t, linearTrack())
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.bin")
	truncated := filepath.Join(dir, "truncated.bin")
	if err := os.WriteFile(truncated, linearTrack()[:5], 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, "frames", "-p", "posx", missing, good, truncated)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("Expected 2 errors, got %d (%v)", got, err)
	}
	if !strings.Contains(out, good+":") {
		t.Errorf("Expected the valid file to be listed, got:\n%s", out)
	}
}

func TestEval_RequiresTime(t *testing.T) {
	path := writeTrackFile(t, linearTrack())

	if _, err := runApp(t, "eval", "-p", "posx", path); err == nil {
		t.Error("Expected error without --time, got nil")
	}
}

func TestNewTarget(t *testing.T) {
	tests := []struct {
		property animation.Property
		nodes    int
		image    bool
		wantErr  bool
	}{
		{animation.PropertyPosX, 1, false, false},
		{animation.PropertyDrawOrder, 3, false, false},
		{animation.PropertyDrawOrder, 0, false, true},
		{animation.PropertyVertexDeform, 1, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.property.String(), func(t *testing.T) {
			tg, err := newTarget(tt.property, 3, tt.nodes)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if (tg.image != nil) != tt.image {
				t.Errorf("Expected image target %v", tt.image)
			}
			if tt.property == animation.PropertyDrawOrder && tg.graph.Len() != tt.nodes {
				t.Errorf("Expected %d nodes, got %d", tt.nodes, tg.graph.Len())
			}
		})
	}
}

func TestReanim(t *testing.T) {
	path := writeTrackFile(t, []byte(`<fps>12</fps>
<track><name>anim_idle</name><t><f>0</f></t></track>
<track><name>head</name><t><x>1</x></t><t><x>2</x></t></track>
<track><name>body</name><t><y>5</y></t></track>`))

	out, err := runApp(t, "reanim", "--part", "head", path)
	if err != nil {
		t.Fatalf("reanim failed: %v", err)
	}
	if !strings.Contains(out, "head:\n") || !strings.Contains(out, "property=posx keyframes=2") {
		t.Errorf("Expected head posx track in output, got:\n%s", out)
	}
	if strings.Contains(out, "body:") {
		t.Errorf("Expected body to be filtered out, got:\n%s", out)
	}

	if _, err := runApp(t, "reanim", "--part", "leg", path); err == nil {
		t.Error("Expected error for unknown part, got nil")
	}
}
