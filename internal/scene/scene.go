package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/voyager-lod/pkg/lod"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

// Motion is the per-frame camera movement of a scripted orbit.
type Motion struct {
	Yaw   float32 // radians per frame
	Pitch float32 // radians per frame
	Zoom  float32 // relative distance change per frame
}

// Scene holds the node hierarchy, the models and the camera.
type Scene struct {
	Name   string
	Camera *OrbitCamera
	Motion Motion

	nodes  map[string]*Node
	models []*Model
}

// New returns an empty scene with a default camera.
func New(name string) *Scene {
	return &Scene{
		Name:   name,
		Camera: NewOrbitCamera(),
		nodes:  make(map[string]*Node),
	}
}

// Node returns the named group or model node, or nil.
func (s *Scene) Node(name string) *Node {
	return s.nodes[name]
}

// AddNode registers a node under its name.
func (s *Scene) AddNode(n *Node) {
	s.nodes[n.Name] = n
}

// AddModel registers a model and its node.
func (s *Scene) AddModel(m *Model) {
	if m.Node != nil {
		s.AddNode(m.Node)
	}
	s.models = append(s.models, m)
}

// Models returns the scene models in insertion order.
func (s *Scene) Models() []*Model {
	return s.models
}

// Model returns the model with the given id, or nil.
func (s *Scene) Model(id string) *Model {
	for _, m := range s.models {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// Bounds returns the world-space box around all loaded models.
func (s *Scene) Bounds() math.Box3 {
	b := math.EmptyBox3()
	for _, m := range s.models {
		wb := m.WorldBounds()
		if wb.IsEmpty() {
			continue
		}
		b.ExpandByPoint(wb.Min)
		b.ExpandByPoint(wb.Max)
	}
	return b
}

// Frame returns the LOD controller input for the current camera.
func (s *Scene) Frame(enabled, force bool) lod.Frame {
	models := make([]lod.Model, len(s.models))
	for i, m := range s.models {
		models[i] = m
	}
	return lod.Frame{
		Enabled: enabled,
		Camera:  s.Camera.LODCamera(),
		Models:  models,
		Force:   force,
	}
}

// Step advances the scripted camera motion by one frame.
func (s *Scene) Step() {
	if s.Motion.Yaw != 0 || s.Motion.Pitch != 0 {
		s.Camera.Orbit(s.Motion.Yaw, s.Motion.Pitch)
	}
	if s.Motion.Zoom != 0 {
		s.Camera.Zoom(s.Motion.Zoom)
	}
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}
