// Package scene is a minimal scene graph for driving the LOD controller:
// transform nodes, models with derivatives, and an orbiting camera.
package scene

import "github.com/Faultbox/voyager-lod/pkg/math"

// Node is a transform in the scene hierarchy.
type Node struct {
	Name      string
	Parent    *Node
	Transform math.Mat4 // local to parent
}

// NewNode returns a node with an identity transform.
func NewNode(name string, parent *Node) *Node {
	return &Node{Name: name, Parent: parent, Transform: math.Identity()}
}

// Ancestors returns the transforms from this node up to the root, this
// node's own first.
func (n *Node) Ancestors() []math.Mat4 {
	var chain []math.Mat4
	seen := make(map[*Node]bool)
	for p := n; p != nil && !seen[p]; p = p.Parent {
		seen[p] = true
		chain = append(chain, p.Transform)
	}
	return chain
}

// WorldMatrix returns the local-to-world transform.
func (n *Node) WorldMatrix() math.Mat4 {
	world := math.Identity()
	for _, m := range n.Ancestors() {
		world = m.Mul(world)
	}
	return world
}
