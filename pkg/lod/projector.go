package lod

import "github.com/Faultbox/voyager-lod/pkg/math"

// WorldMatrix composes a local-to-world transform from a chain of ancestor
// transforms ordered leaf first, then applies the uniform scale to the
// model's local space. A zero scale means unscaled.
func WorldMatrix(ancestors []math.Mat4, scale float32) math.Mat4 {
	world := math.Identity()
	for _, m := range ancestors {
		world = m.Mul(world)
	}
	if scale == 0 || scale == 1 {
		return world
	}
	return world.Mul(math.Scale(scale, scale, scale))
}

// Project returns the NDC-space box enclosing the eight corners of the local
// bounds after the world transform and the camera's view-projection. Empty
// bounds, as for a model that has not loaded yet, give an empty box.
func Project(bounds math.Box3, ancestors []math.Mat4, scale float32, viewProj math.Mat4) math.Box3 {
	return projectWorld(bounds, WorldMatrix(ancestors, scale), viewProj)
}

func projectWorld(bounds math.Box3, world, viewProj math.Mat4) math.Box3 {
	if bounds.IsEmpty() {
		return math.EmptyBox3()
	}
	return bounds.ProjectToNDC(viewProj.Mul(world))
}
