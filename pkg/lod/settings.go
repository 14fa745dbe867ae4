// Package lod chooses, once per frame, which quality of derivative each model
// in a scene should display. Models are projected to normalized device
// coordinates, scored by how much of the view they occupy, classified into a
// quality tier with hysteresis, and finally downgraded in order of least
// importance until the texture budget fits.
package lod

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
)

// Settings validation errors.
var (
	ErrInvalidThresholds = errors.New("lod: thresholds must be ascending in size and quality")
	ErrInvalidHysteresis = errors.New("lod: hysteresis must be in [0, 1)")
	ErrInvalidBudget     = errors.New("lod: budget must be positive")
	ErrMissingCost       = errors.New("lod: missing pixel cost for quality")
)

// Threshold caps the quality of a model whose weight is below Size.
type Threshold struct {
	Size    float32
	Quality derivative.Quality
}

// Costs maps a quality tier to the texture memory it occupies, in pixels.
type Costs map[derivative.Quality]int64

// Cost returns the pixel cost of q, or 0 if unknown.
func (c Costs) Cost(q derivative.Quality) int64 {
	return c[q]
}

// Settings holds the tuning of the LOD pass.
type Settings struct {
	// Thresholds is ordered ascending. A weight that passes every threshold
	// gets Ceiling.
	Thresholds []Threshold
	Ceiling    derivative.Quality
	Hysteresis float32

	// Budget is the total texture memory in pixels shared by all models.
	Budget int64
	Costs  Costs
	// ShadowReserve is set aside for non-model textures such as shadow maps.
	ShadowReserve int64
	// ReservedSlots is the number of lowest-tier textures reserved per model.
	ReservedSlots int
}

// DefaultSettings returns the tuning used by the viewer.
func DefaultSettings() Settings {
	return Settings{
		Thresholds: []Threshold{
			{Size: 0.03, Quality: derivative.Thumb},
			{Size: 0.10, Quality: derivative.Low},
			{Size: 0.30, Quality: derivative.Medium},
		},
		Ceiling:    derivative.High,
		Hysteresis: 0.02,
		Budget:     4 * 4096 * 4096,
		Costs: Costs{
			derivative.Thumb:   512 * 512,
			derivative.Low:     1024 * 1024,
			derivative.Medium:  2048 * 2048,
			derivative.High:    4096 * 4096,
			derivative.Highest: 8192 * 8192,
		},
		ShadowReserve: 2 * 2048 * 2048,
		ReservedSlots: 2,
	}
}

// Validate checks that the settings describe a usable LOD ladder.
func (s Settings) Validate() error {
	prev := Threshold{Size: -1, Quality: -1}
	for i, t := range s.Thresholds {
		if t.Size <= prev.Size || t.Quality <= prev.Quality || t.Quality > derivative.Highest {
			return fmt.Errorf("%w: entry %d (%.3f, %s)", ErrInvalidThresholds, i, t.Size, t.Quality)
		}
		prev = t
	}
	if s.Ceiling <= prev.Quality || s.Ceiling > derivative.Highest {
		return fmt.Errorf("%w: ceiling %s", ErrInvalidThresholds, s.Ceiling)
	}
	if s.Hysteresis < 0 || s.Hysteresis >= 1 {
		return fmt.Errorf("%w: %.3f", ErrInvalidHysteresis, s.Hysteresis)
	}
	if s.Budget <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBudget, s.Budget)
	}
	for q := derivative.Lowest; q <= s.Ceiling; q++ {
		if _, ok := s.Costs[q]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingCost, q)
		}
	}
	return nil
}
