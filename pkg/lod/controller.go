package lod

import (
	"go.uber.org/zap"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

// Model is a renderable object whose derivative quality the controller
// manages. The scene owns its lifetime; the controller only reads its
// geometry and swaps its active derivative.
type Model interface {
	ID() string
	// Bounds is the local-space bounding box. It is empty until loaded.
	Bounds() math.Box3
	// Scale is the uniform unit scale applied in local space.
	Scale() float32
	// Ancestors returns local-to-parent transforms, the model's own first.
	Ancestors() []math.Mat4
	// Quality is the quality of the currently active derivative.
	Quality() derivative.Quality
	// SelectDerivative returns the best available derivative for the
	// request, or nil.
	SelectDerivative(usage derivative.Usage, quality derivative.Quality) *derivative.Derivative
	ActivateDerivative(d *derivative.Derivative)
}

// Camera is the active view of the scene.
type Camera struct {
	ViewProjection math.Mat4
}

// NewCamera builds a camera from separate view and projection matrices.
func NewCamera(view, projection math.Mat4) *Camera {
	return &Camera{ViewProjection: projection.Mul(view)}
}

// Frame is the input of one LOD pass.
type Frame struct {
	Enabled bool
	Camera  *Camera
	Models  []Model
	// Force runs the pass even if nothing changed since the last one.
	Force bool
}

// Decision records what the pass decided for one model.
type Decision struct {
	ID       string
	NDC      math.Box3
	Weight   float32
	Current  derivative.Quality
	Proposed derivative.Quality
	Final    derivative.Quality
	Applied  bool
}

// Result summarizes one LOD pass.
type Result struct {
	Ran        bool
	Decisions  []Decision
	Total      int64
	OverBudget bool
	Changed    int
}

type modelState struct {
	id    string
	world math.Mat4
	box   math.Box3
}

// Controller runs the LOD pass. It is not safe for concurrent use; call it
// from the render loop only.
type Controller struct {
	settings Settings
	log      *zap.Logger

	// previous pass, diffed by Update
	ran        bool
	viewProj   math.Mat4
	models     []modelState
	overBudget bool
}

// NewController returns a controller using s. A nil logger disables logging.
func NewController(s Settings, log *zap.Logger) (*Controller, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{settings: s, log: log}, nil
}

// Settings returns the active settings.
func (c *Controller) Settings() Settings {
	return c.settings
}

// SetSettings replaces the settings. The next Update runs a full pass.
func (c *Controller) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	c.ran = false
	c.log.Info("lod settings updated",
		zap.Int64("budget", s.Budget),
		zap.Float32("hysteresis", s.Hysteresis))
	return nil
}

// Update runs the pass only if the camera, the model set or any model's
// transform or bounds changed since the previous pass, or if f.Force is set.
func (c *Controller) Update(f Frame) Result {
	if !f.Enabled || f.Camera == nil || len(f.Models) == 0 {
		return Result{}
	}
	if !f.Force && c.ran && !c.changed(f) {
		return Result{}
	}
	return c.Run(f)
}

// Run performs a full pass: project, score, classify, allocate and apply.
// A disabled frame, a missing camera or an empty model list is a no-op.
func (c *Controller) Run(f Frame) Result {
	if !f.Enabled || f.Camera == nil || len(f.Models) == 0 {
		return Result{}
	}

	res := Result{Ran: true, Decisions: make([]Decision, len(f.Models))}
	candidates := make([]Candidate, len(f.Models))
	c.models = c.models[:0]

	for i, m := range f.Models {
		world := WorldMatrix(m.Ancestors(), m.Scale())
		bounds := m.Bounds()
		ndc := projectWorld(bounds, world, f.Camera.ViewProjection)
		weight := Score(ndc)
		current := m.Quality()
		proposed := Classify(current, weight, c.settings)

		res.Decisions[i] = Decision{
			ID:       m.ID(),
			NDC:      ndc,
			Weight:   weight,
			Current:  current,
			Proposed: proposed,
		}
		candidates[i] = Candidate{Weight: weight, Quality: proposed}
		c.models = append(c.models, modelState{id: m.ID(), world: world, box: bounds})
	}

	alloc := Allocate(candidates, c.settings)
	res.Total = alloc.Total
	res.OverBudget = alloc.OverBudget
	for i, q := range alloc.Qualities {
		res.Decisions[i].Final = q
	}

	res.Changed = c.apply(f.Models, res.Decisions)

	if res.OverBudget && !c.overBudget {
		c.log.Warn("texture budget exceeded at lowest quality",
			zap.Int("models", len(f.Models)),
			zap.Int64("total", alloc.Total),
			zap.Int64("budget", c.settings.Budget))
	}
	c.overBudget = res.OverBudget
	c.viewProj = f.Camera.ViewProjection
	c.ran = true

	if res.Changed > 0 {
		c.log.Debug("lod pass",
			zap.Int("models", len(f.Models)),
			zap.Int("changed", res.Changed),
			zap.Int("downgrades", alloc.Downgrades),
			zap.Int64("total", alloc.Total))
	}
	return res
}

func (c *Controller) apply(models []Model, decisions []Decision) int {
	changed := 0
	for i, m := range models {
		d := &decisions[i]
		if !Apply(m, d.Final, d.Weight) {
			continue
		}
		d.Applied = true
		changed++
		c.log.Debug("derivative quality changed",
			zap.String("model", d.ID),
			zap.Stringer("from", d.Current),
			zap.Stringer("to", m.Quality()),
			zap.Float32("weight", d.Weight))
	}
	return changed
}

// Apply switches m to the derivative best matching final. Invisible models
// (weight 0) are never upgraded; downgrades always go through. It reports
// whether the active derivative changed.
func Apply(m Model, final derivative.Quality, weight float32) bool {
	current := m.Quality()
	if final == current {
		return false
	}
	if final > current && weight <= 0 {
		return false
	}
	d := m.SelectDerivative(derivative.Web3D, final)
	if d == nil || d.Quality == current {
		return false
	}
	if d.Quality > current && weight <= 0 {
		return false
	}
	m.ActivateDerivative(d)
	return true
}

func (c *Controller) changed(f Frame) bool {
	if f.Camera.ViewProjection != c.viewProj || len(f.Models) != len(c.models) {
		return true
	}
	for i, m := range f.Models {
		prev := c.models[i]
		if m.ID() != prev.id || m.Bounds() != prev.box {
			return true
		}
		if WorldMatrix(m.Ancestors(), m.Scale()) != prev.world {
			return true
		}
	}
	return false
}
