package lod

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

type fakeModel struct {
	id        string
	bounds    math.Box3
	scale     float32
	ancestors []math.Mat4
	quality   derivative.Quality
	derivs    *derivative.List
	activated []derivative.Quality
}

func newFakeModel(id string, bounds math.Box3, ancestors ...math.Mat4) *fakeModel {
	l := derivative.NewList()
	for _, q := range []derivative.Quality{derivative.Thumb, derivative.Low, derivative.Medium, derivative.High} {
		l.Add(&derivative.Derivative{Usage: derivative.Web3D, Quality: q})
	}
	return &fakeModel{id: id, bounds: bounds, scale: 1, ancestors: ancestors, derivs: l}
}

func (m *fakeModel) ID() string                  { return m.id }
func (m *fakeModel) Bounds() math.Box3           { return m.bounds }
func (m *fakeModel) Scale() float32              { return m.scale }
func (m *fakeModel) Ancestors() []math.Mat4      { return m.ancestors }
func (m *fakeModel) Quality() derivative.Quality { return m.quality }

func (m *fakeModel) SelectDerivative(usage derivative.Usage, q derivative.Quality) *derivative.Derivative {
	return m.derivs.Select(usage, q)
}

func (m *fakeModel) ActivateDerivative(d *derivative.Derivative) {
	m.quality = d.Quality
	m.activated = append(m.activated, d.Quality)
}

func testCamera(eye math.Vec3) *Camera {
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(float32(gomath.Pi/3), 1, 0.1, 100)
	return NewCamera(view, proj)
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController(DefaultSettings(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestProjectCenteredCube(t *testing.T) {
	cam := testCamera(math.Vec3{Z: 5})
	ndc := Project(math.B3(-1, -1, -1, 1, 1, 1), nil, 1, cam.ViewProjection)

	c := ndc.Center()
	assert.InDelta(t, 0, c.X, 1e-5)
	assert.InDelta(t, 0, c.Y, 1e-5)
	// f = 1/tan(30deg); the front face sits 4 units from the eye
	want := 1 / gomath.Tan(gomath.Pi/6) / 4
	assert.InDelta(t, want, ndc.Max.X, 1e-4)
	assert.InDelta(t, -want, ndc.Min.Y, 1e-4)
}

func TestWorldMatrix(t *testing.T) {
	leaf := math.Translate(1, 0, 0)
	root := math.Scale(2, 2, 2)
	world := WorldMatrix([]math.Mat4{leaf, root}, 3)

	// scale 3 in local space, then leaf, then root
	got := world.TransformPoint(math.Vec3{X: 1})
	assert.InDelta(t, 8, got.X, 1e-5)

	assert.Equal(t, math.Identity(), WorldMatrix(nil, 0))
	assert.True(t, Project(math.EmptyBox3(), nil, 1, math.Identity()).IsEmpty())
}

func TestControllerScenario(t *testing.T) {
	c := newTestController(t)
	a := newFakeModel("a", math.B3(-1, -1, -1, 1, 1, 1))
	b := newFakeModel("b", math.B3(-1, -1, -1, 1, 1, 1), math.Translate(100, 0, 0))

	frame := Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{a, b}}
	res := c.Run(frame)
	require.True(t, res.Ran)
	require.Len(t, res.Decisions, 2)

	da, db := res.Decisions[0], res.Decisions[1]
	assert.InDelta(t, RelativeSize(da.NDC), da.Weight, 1e-6)
	assert.Zero(t, db.Weight)
	assert.Equal(t, derivative.Medium, a.Quality())
	assert.Equal(t, derivative.Thumb, b.Quality())
	assert.GreaterOrEqual(t, a.Quality(), b.Quality())
	assert.Equal(t, 1, res.Changed)
	assert.True(t, da.Applied)
	assert.False(t, db.Applied)
	assert.LessOrEqual(t, res.Total, DefaultSettings().Budget)
}

func TestControllerIdempotent(t *testing.T) {
	c := newTestController(t)
	models := []Model{
		newFakeModel("near", math.B3(-1, -1, -1, 1, 1, 1)),
		newFakeModel("side", math.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5), math.Translate(2, 0, 0)),
		newFakeModel("far", math.B3(-0.2, -0.2, -0.2, 0.2, 0.2, 0.2), math.Translate(0, 0, -40)),
	}
	frame := Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: models}

	first := c.Run(frame)
	require.True(t, first.Ran)
	assert.Positive(t, first.Changed)

	second := c.Run(frame)
	require.True(t, second.Ran)
	assert.Zero(t, second.Changed)
	for _, d := range second.Decisions {
		assert.Equal(t, d.Current, d.Final, "model %s", d.ID)
	}
}

func TestControllerUpdateSkipsUnchanged(t *testing.T) {
	c := newTestController(t)
	m := newFakeModel("a", math.B3(-1, -1, -1, 1, 1, 1))
	frame := Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{m}}

	assert.True(t, c.Update(frame).Ran)
	assert.False(t, c.Update(frame).Ran)

	frame.Force = true
	assert.True(t, c.Update(frame).Ran)
	frame.Force = false

	// camera moved back: cube shrinks on screen
	frame.Camera = testCamera(math.Vec3{Z: 30})
	res := c.Update(frame)
	require.True(t, res.Ran)
	assert.Less(t, m.Quality(), derivative.Medium)

	// streamed-in geometry changes the bounds
	m.bounds = math.B3(-3, -3, -3, 3, 3, 3)
	assert.True(t, c.Update(frame).Ran)

	require.NoError(t, c.SetSettings(DefaultSettings()))
	assert.True(t, c.Update(frame).Ran)
}

func TestControllerNoOp(t *testing.T) {
	c := newTestController(t)
	m := newFakeModel("a", math.B3(-1, -1, -1, 1, 1, 1))
	cam := testCamera(math.Vec3{Z: 5})

	tests := []struct {
		name  string
		frame Frame
	}{
		{name: "disabled", frame: Frame{Enabled: false, Camera: cam, Models: []Model{m}}},
		{name: "no camera", frame: Frame{Enabled: true, Models: []Model{m}}},
		{name: "no models", frame: Frame{Enabled: true, Camera: cam}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, c.Run(tt.frame).Ran)
			assert.False(t, c.Update(tt.frame).Ran)
			assert.Equal(t, derivative.Thumb, m.Quality())
		})
	}
}

func TestControllerUnloadedModel(t *testing.T) {
	c := newTestController(t)
	m := newFakeModel("pending", math.EmptyBox3())
	res := c.Run(Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{m}})

	require.True(t, res.Ran)
	assert.Zero(t, res.Decisions[0].Weight)
	assert.True(t, res.Decisions[0].NDC.IsEmpty())
	assert.Equal(t, derivative.Thumb, m.Quality())
	assert.Empty(t, m.activated)
}

func TestControllerDowngradesInvisible(t *testing.T) {
	c := newTestController(t)
	m := newFakeModel("gone", math.B3(-1, -1, -1, 1, 1, 1), math.Translate(0, 100, 0))
	m.quality = derivative.High

	res := c.Run(Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{m}})
	require.True(t, res.Ran)
	assert.Zero(t, res.Decisions[0].Weight)
	assert.Equal(t, derivative.Thumb, m.Quality())
}

func TestControllerFallbackDerivative(t *testing.T) {
	c := newTestController(t)
	m := newFakeModel("a", math.B3(-1, -1, -1, 1, 1, 1))
	m.derivs = derivative.NewList(
		&derivative.Derivative{Usage: derivative.Web3D, Quality: derivative.Thumb},
		&derivative.Derivative{Usage: derivative.Web3D, Quality: derivative.Low},
	)

	res := c.Run(Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{m}})
	require.True(t, res.Ran)
	assert.Equal(t, derivative.Medium, res.Decisions[0].Final)
	assert.Equal(t, derivative.Low, m.Quality())

	// the fallback already is the active one: nothing to do
	res = c.Run(Frame{Enabled: true, Camera: testCamera(math.Vec3{Z: 5}), Models: []Model{m}})
	assert.Zero(t, res.Changed)
	assert.Equal(t, []derivative.Quality{derivative.Low}, m.activated)
}

func TestApplyNeverUpgradesInvisible(t *testing.T) {
	m := newFakeModel("a", math.B3(-1, -1, -1, 1, 1, 1))

	assert.False(t, Apply(m, derivative.High, 0))
	assert.Equal(t, derivative.Thumb, m.Quality())

	assert.True(t, Apply(m, derivative.High, 0.5))
	assert.Equal(t, derivative.High, m.Quality())

	// downgrades go through regardless of visibility
	assert.True(t, Apply(m, derivative.Low, 0))
	assert.Equal(t, derivative.Low, m.Quality())

	m.derivs = derivative.NewList()
	assert.False(t, Apply(m, derivative.Thumb, 0.5))
}

func TestNewControllerRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Budget = 0
	_, err := NewController(s, nil)
	assert.ErrorIs(t, err, ErrInvalidBudget)

	c := newTestController(t)
	s = DefaultSettings()
	s.Hysteresis = -1
	assert.ErrorIs(t, c.SetSettings(s), ErrInvalidHysteresis)
	assert.Equal(t, float32(0.02), c.Settings().Hysteresis)
}
