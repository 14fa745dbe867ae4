package lod

import "github.com/Faultbox/voyager-lod/pkg/derivative"

// Classify proposes the quality a model with the given weight is eligible
// for. Thresholds are walked in ascending order and the first one the
// weight falls under caps the quality.
//
// Thresholds for tiers below the current one are lowered by the hysteresis
// margin, so a model only drops once its weight is clearly under the
// boundary. Upgrades are not dampened.
func Classify(current derivative.Quality, weight float32, s Settings) derivative.Quality {
	for _, t := range s.Thresholds {
		size := t.Size
		if t.Quality < current {
			size -= s.Hysteresis
		}
		if weight < size {
			return t.Quality
		}
	}
	return s.Ceiling
}
