package scene

import (
	"github.com/google/uuid"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

// Model is a node carrying a 3D object with its derivatives.
type Model struct {
	*Node

	id          string
	bounds      math.Box3
	unitScale   float32
	derivatives *derivative.List
	active      *derivative.Derivative
	quality     derivative.Quality
}

// NewModel creates a model. An empty id gets a random UUID.
func NewModel(id string, node *Node, derivatives *derivative.List) *Model {
	if id == "" {
		id = uuid.NewString()
	}
	if derivatives == nil {
		derivatives = derivative.NewList()
	}
	return &Model{
		Node:        node,
		id:          id,
		bounds:      math.EmptyBox3(),
		unitScale:   1,
		derivatives: derivatives,
		quality:     derivative.Thumb,
	}
}

// ID returns the model id.
func (m *Model) ID() string { return m.id }

// Bounds returns the local bounding box, empty until SetBounds is called.
func (m *Model) Bounds() math.Box3 { return m.bounds }

// SetBounds updates the local bounding box, as when geometry finishes loading.
func (m *Model) SetBounds(b math.Box3) { m.bounds = b }

// Scale returns the uniform unit scale.
func (m *Model) Scale() float32 { return m.unitScale }

// SetScale sets the uniform unit scale.
func (m *Model) SetScale(s float32) { m.unitScale = s }

// Derivatives returns the model's derivative list.
func (m *Model) Derivatives() *derivative.List { return m.derivatives }

// Quality returns the quality of the active derivative.
func (m *Model) Quality() derivative.Quality { return m.quality }

// SetQuality sets the bound quality without selecting a derivative, as for
// the initial state read from a scene file.
func (m *Model) SetQuality(q derivative.Quality) { m.quality = q }

// Active returns the active derivative, or nil.
func (m *Model) Active() *derivative.Derivative { return m.active }

// SelectDerivative returns the best derivative for usage and quality.
func (m *Model) SelectDerivative(usage derivative.Usage, quality derivative.Quality) *derivative.Derivative {
	return m.derivatives.Select(usage, quality)
}

// ActivateDerivative binds d for rendering.
func (m *Model) ActivateDerivative(d *derivative.Derivative) {
	m.active = d
	m.quality = d.Quality
}

// WorldBounds returns the world-space bounding box including unit scale.
func (m *Model) WorldBounds() math.Box3 {
	s := m.unitScale
	if s == 0 {
		s = 1
	}
	return m.bounds.Transform(m.WorldMatrix().Mul(math.Scale(s, s, s)))
}
