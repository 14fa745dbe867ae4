package lod

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/voyager-lod/pkg/math"
)

// RelativeSize is the fraction of the screen covered by an NDC box. The full
// screen spans 2x2 in NDC. Boxes reaching past the frustum clamp to 1.
func RelativeSize(b math.Box3) float32 {
	size := b.Size()
	return clamp(size.X*size.Y/4, 0, 1)
}

// CenterWeight is 1 when the box covers the screen center on both axes and
// decays with the distance of the box's nearest edge from the center.
func CenterWeight(b math.Box3) float32 {
	dx := math32.Max(math32.Max(-b.Max.X, b.Min.X), 0)
	dy := math32.Max(math32.Max(-b.Max.Y, b.Min.Y), 0)
	return 1 / (1 + dx + dy)
}

// DepthWeight rates the depth visibility of a box spanning [zmin, zmax] in
// NDC. Each depth counts 1 between the near and far planes and falls off
// linearly to 0 over one NDC unit beyond a plane; the weight is the average
// over the box. A box entirely inside the depth range weighs 1, a box
// crossing a clip plane always weighs strictly between 0 and 1.
func DepthWeight(zmin, zmax float32) float32 {
	if zmin >= -1 && zmax <= 1 {
		return 1
	}

	var w float32
	if zmax-zmin > 1e-6 {
		w = (depthIntegral(zmax) - depthIntegral(zmin)) / (zmax - zmin)
	} else {
		w = 2 - math32.Abs(zmin)
	}

	if zmax >= -1 && zmin <= 1 {
		return clamp(w, minStraddleWeight, maxStraddleWeight)
	}
	return clamp(w, 0, 1)
}

const (
	minStraddleWeight = 0.001
	maxStraddleWeight = 0.999
)

// depthIntegral is the integral from 0 to z of the per-depth weight.
func depthIntegral(z float32) float32 {
	a := math32.Abs(z)
	var v float32
	switch {
	case a <= 1:
		v = a
	case a <= 2:
		v = 2*a - a*a/2 - 0.5
	default:
		v = 1.5
	}
	if z < 0 {
		return -v
	}
	return v
}

// OnScreen reports whether the box overlaps the [-1,1] viewport in X and Y.
func OnScreen(b math.Box3) bool {
	return b.Max.X >= -1 && b.Min.X <= 1 && b.Max.Y >= -1 && b.Min.Y <= 1
}

// Score returns the importance weight of a model from its NDC box, in [0,1].
// Empty and off-screen boxes score 0.
func Score(b math.Box3) float32 {
	if b.IsEmpty() || !OnScreen(b) {
		return 0
	}
	w := RelativeSize(b) * CenterWeight(b) * DepthWeight(b.Min.Z, b.Max.Z)
	if math32.IsNaN(w) {
		return 0
	}
	return w
}

func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	return math32.Min(math32.Max(v, lo), hi)
}
