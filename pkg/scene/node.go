// Package scene defines the node capabilities that animation tracks write
// into, and a small in-memory actor implementing them.
//
// Tracks never own nodes. A node is borrowed for the duration of a single
// Apply call and must have one writer per frame; nothing here is
// synchronized.
package scene

// Actor resolves nodes by their index within the owning actor.
type Actor interface {
	NodeAt(index int) (Node, bool)
}

// Node exposes the scalar properties every animated node has.
type Node interface {
	X() float32
	SetX(v float32)
	Y() float32
	SetY(v float32)
	ScaleX() float32
	SetScaleX(v float32)
	ScaleY() float32
	SetScaleY(v float32)
	Rotation() float32
	SetRotation(v float32)
	Opacity() float32
	SetOpacity(v float32)

	// Actor returns the actor the node belongs to, nil when detached.
	Actor() Actor
}

// Bone is a node with a length.
type Bone interface {
	Node
	Length() float32
	SetLength(v float32)
}

// Image is a node that is drawn, optionally as a deformable mesh.
type Image interface {
	Node
	DrawOrder() int
	SetDrawOrder(order int)

	// VertexCount is the number of mesh vertices; deform keyframes hold
	// two floats per vertex.
	VertexCount() int

	// SetAnimatesVertexDeform marks the image as driven by a vertex deform
	// track so that DeformedVertices is allocated.
	SetAnimatesVertexDeform(v bool)
	AnimatesVertexDeform() bool

	// DeformedVertices is the live buffer deform keyframes blend into,
	// 2*VertexCount floats once deform animation is enabled.
	DeformedVertices() []float32

	SetVertexDeformDirty(v bool)
	IsVertexDeformDirty() bool
}
