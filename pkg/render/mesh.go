// Package render converts animated scene state into ebiten drawing input.
package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/actoranim/pkg/math2d"
	"github.com/gonewx/actoranim/pkg/scene"
)

// GeoM returns m as an ebiten geometry matrix.
func GeoM(m *math2d.Mat2D) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, float64(m[0]))
	g.SetElement(0, 1, float64(m[2]))
	g.SetElement(0, 2, float64(m[4]))
	g.SetElement(1, 0, float64(m[1]))
	g.SetElement(1, 1, float64(m[3]))
	g.SetElement(1, 2, float64(m[5]))
	return g
}

// AppendDeformedVertices appends the image's render vertices mapped by its
// world transform. UVs are scaled by the texture size into source pixels and
// the world opacity goes into the alpha channel. Call Graph.ComputeWorld
// first.
func AppendDeformedVertices(dst []ebiten.Vertex, img *scene.ImageNode, texWidth, texHeight float32) []ebiten.Vertex {
	verts := img.RenderVertices()
	uvs := img.UVs()
	world := img.WorldTransform()
	alpha := img.WorldOpacity()

	var p math2d.Vec2D
	for i := 0; i+1 < len(verts); i += 2 {
		math2d.TransformVec(&p, math2d.Vec2D{verts[i], verts[i+1]}, &world)

		var u, v float32
		if i+1 < len(uvs) {
			u, v = uvs[i], uvs[i+1]
		}

		dst = append(dst, ebiten.Vertex{
			DstX:   p[0],
			DstY:   p[1],
			SrcX:   u * texWidth,
			SrcY:   v * texHeight,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: alpha,
		})
	}
	return dst
}

// DrawImage draws the image mesh from tex onto screen.
func DrawImage(screen, tex *ebiten.Image, img *scene.ImageNode, vs []ebiten.Vertex) []ebiten.Vertex {
	b := tex.Bounds()
	vs = AppendDeformedVertices(vs[:0], img, float32(b.Dx()), float32(b.Dy()))
	if len(vs) == 0 || len(img.Indices()) == 0 {
		return vs
	}
	screen.DrawTriangles(vs, img.Indices(), tex, nil)
	return vs
}
