package scene

import (
	"github.com/gonewx/actoranim/pkg/math2d"
)

// NoParent marks a root node.
const NoParent = -1

// BaseNode is a plain transform node. Embed it to build other node kinds.
type BaseNode struct {
	graph  *Graph
	index  int
	parent int
	name   string

	x, y           float32
	scaleX, scaleY float32
	rotation       float32
	opacity        float32

	world        math2d.Mat2D
	worldOpacity float32
}

// NewNode returns a root node with unit scale and full opacity.
func NewNode(name string) *BaseNode {
	n := &BaseNode{}
	n.init(name)
	return n
}

func (n *BaseNode) init(name string) {
	*n = BaseNode{
		index:        -1,
		parent:       NoParent,
		name:         name,
		scaleX:       1,
		scaleY:       1,
		opacity:      1,
		world:        math2d.NewMat2D(),
		worldOpacity: 1,
	}
}

func (n *BaseNode) base() *BaseNode { return n }

func (n *BaseNode) Name() string { return n.name }

// Index returns the node's index in its graph, -1 when detached.
func (n *BaseNode) Index() int { return n.index }

// Parent returns the parent index or NoParent.
func (n *BaseNode) Parent() int { return n.parent }

func (n *BaseNode) X() float32            { return n.x }
func (n *BaseNode) SetX(v float32)        { n.x = v }
func (n *BaseNode) Y() float32            { return n.y }
func (n *BaseNode) SetY(v float32)        { n.y = v }
func (n *BaseNode) ScaleX() float32       { return n.scaleX }
func (n *BaseNode) SetScaleX(v float32)   { n.scaleX = v }
func (n *BaseNode) ScaleY() float32       { return n.scaleY }
func (n *BaseNode) SetScaleY(v float32)   { n.scaleY = v }
func (n *BaseNode) Rotation() float32     { return n.rotation }
func (n *BaseNode) SetRotation(v float32) { n.rotation = v }
func (n *BaseNode) Opacity() float32      { return n.opacity }
func (n *BaseNode) SetOpacity(v float32)  { n.opacity = v }

// WorldTransform returns the transform computed by the last
// Graph.ComputeWorld.
func (n *BaseNode) WorldTransform() math2d.Mat2D { return n.world }

func (n *BaseNode) WorldOpacity() float32 { return n.worldOpacity }

func (n *BaseNode) Actor() Actor {
	if n.graph == nil {
		return nil
	}
	return n.graph
}

// LocalTransform composes rotation, scale and translation.
func (n *BaseNode) LocalTransform() math2d.Mat2D {
	var m math2d.Mat2D
	math2d.FromRotation(&m, n.rotation)
	math2d.Scale(&m, &m, math2d.Vec2D{n.scaleX, n.scaleY})
	m[4], m[5] = n.x, n.y
	return m
}

// BoneNode is a node with a length along its local x axis.
type BoneNode struct {
	BaseNode
	length float32
}

func NewBone(name string, length float32) *BoneNode {
	b := &BoneNode{length: length}
	b.init(name)
	return b
}

func (b *BoneNode) Length() float32     { return b.length }
func (b *BoneNode) SetLength(v float32) { b.length = v }

// ImageNode is a drawable mesh. Vertices are rest positions as flattened
// x,y pairs and UVs the matching texture coordinates.
type ImageNode struct {
	BaseNode
	drawOrder int

	vertices []float32
	uvs      []float32
	indices  []uint16

	animatesDeform bool
	deformed       []float32
	deformDirty    bool
}

func NewImage(name string, vertices, uvs []float32, indices []uint16) *ImageNode {
	img := &ImageNode{vertices: vertices, uvs: uvs, indices: indices}
	img.init(name)
	return img
}

func (img *ImageNode) DrawOrder() int         { return img.drawOrder }
func (img *ImageNode) SetDrawOrder(order int) { img.drawOrder = order }
func (img *ImageNode) VertexCount() int       { return len(img.vertices) / 2 }
func (img *ImageNode) Vertices() []float32    { return img.vertices }
func (img *ImageNode) UVs() []float32         { return img.uvs }
func (img *ImageNode) Indices() []uint16      { return img.indices }

// SetAnimatesVertexDeform enables the deformed buffer, initialized to the
// rest vertices the first time.
func (img *ImageNode) SetAnimatesVertexDeform(v bool) {
	img.animatesDeform = v
	if v && img.deformed == nil {
		img.deformed = make([]float32, len(img.vertices))
		copy(img.deformed, img.vertices)
	}
}

func (img *ImageNode) AnimatesVertexDeform() bool  { return img.animatesDeform }
func (img *ImageNode) DeformedVertices() []float32 { return img.deformed }
func (img *ImageNode) SetVertexDeformDirty(v bool) { img.deformDirty = v }
func (img *ImageNode) IsVertexDeformDirty() bool   { return img.deformDirty }

// RenderVertices returns the deformed buffer when deform animation is on,
// otherwise the rest vertices.
func (img *ImageNode) RenderVertices() []float32 {
	if img.animatesDeform {
		return img.deformed
	}
	return img.vertices
}

type graphNode interface {
	Node
	base() *BaseNode
}

// Graph is an actor holding nodes by index. Index 0 is the first node
// added; parents must be added before their children.
type Graph struct {
	nodes []graphNode
}

func NewGraph() *Graph {
	return &Graph{nodes: make([]graphNode, 0)}
}

// Add appends node under parent (NoParent for a root) and returns its index.
// node must be one of the node types of this package.
func (g *Graph) Add(node Node, parent int) int {
	gn, ok := node.(graphNode)
	if !ok {
		return -1
	}
	if parent < NoParent || parent >= len(g.nodes) {
		parent = NoParent
	}
	b := gn.base()
	b.graph = g
	b.index = len(g.nodes)
	b.parent = parent
	g.nodes = append(g.nodes, gn)
	return b.index
}

// NodeAt implements Actor.
func (g *Graph) NodeAt(index int) (Node, bool) {
	if index < 0 || index >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[index], true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Images returns the image nodes in index order.
func (g *Graph) Images() []*ImageNode {
	var out []*ImageNode
	for _, n := range g.nodes {
		if img, ok := n.(*ImageNode); ok {
			out = append(out, img)
		}
	}
	return out
}

// ComputeWorld updates world transforms and opacities from the local
// properties, parents first.
func (g *Graph) ComputeWorld() {
	for _, n := range g.nodes {
		b := n.base()
		local := b.LocalTransform()
		if b.parent == NoParent {
			b.world = local
			b.worldOpacity = b.opacity
			continue
		}
		p := g.nodes[b.parent].base()
		math2d.Multiply(&b.world, &p.world, &local)
		b.worldOpacity = p.worldOpacity * b.opacity
	}
}
