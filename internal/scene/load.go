package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
	"github.com/Faultbox/voyager-lod/pkg/math"
)

// Scene file errors.
var (
	ErrUnknownParent = errors.New("unknown parent")
	ErrDuplicateName = errors.New("duplicate node name")
	ErrParentCycle   = errors.New("parent cycle")
)

// File is the on-disk layout of a scene. Angles are in degrees.
type File struct {
	Name   string      `yaml:"name"`
	Camera CameraFile  `yaml:"camera"`
	Groups []NodeFile  `yaml:"groups"`
	Models []ModelFile `yaml:"models"`
}

// CameraFile describes the orbit camera and its scripted motion.
type CameraFile struct {
	Center   [3]float32 `yaml:"center"`
	Distance float32    `yaml:"distance"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
	FOV      float32    `yaml:"fov"`
	Aspect   float32    `yaml:"aspect"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	// Fit places the camera so that every model is in view, ignoring
	// Center and Distance.
	Fit   bool       `yaml:"fit"`
	Orbit MotionFile `yaml:"orbit"`
}

// MotionFile is the per-frame camera motion.
type MotionFile struct {
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
	Zoom  float32 `yaml:"zoom"`
}

// NodeFile is a transform node.
type NodeFile struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	Scale    *[3]float32 `yaml:"scale"`
}

// BoundsFile is a local-space bounding box.
type BoundsFile struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// ModelFile is a model with its derivatives. A model without bounds is
// treated as not yet loaded.
type ModelFile struct {
	NodeFile `yaml:",inline"`

	ID          string                   `yaml:"id"`
	UnitScale   float32                  `yaml:"unit_scale"`
	Bounds      *BoundsFile              `yaml:"bounds"`
	Quality     derivative.Quality       `yaml:"quality"`
	Derivatives []*derivative.Derivative `yaml:"derivatives"`
}

// LoadFile reads a YAML scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from YAML.
func Parse(data []byte) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Build()
}

// Build creates the scene described by f.
func (f *File) Build() (*Scene, error) {
	s := New(f.Name)

	defs := make(map[string]NodeFile, len(f.Groups)+len(f.Models))
	add := func(n NodeFile) error {
		if n.Name == "" {
			return nil
		}
		if _, ok := defs[n.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, n.Name)
		}
		defs[n.Name] = n
		s.AddNode(NewNode(n.Name, nil))
		return nil
	}
	for _, g := range f.Groups {
		if g.Name == "" {
			return nil, errors.New("group without a name")
		}
		if err := add(g); err != nil {
			return nil, err
		}
	}

	for i := range f.Models {
		mf := &f.Models[i]
		if err := add(mf.NodeFile); err != nil {
			return nil, err
		}

		var node *Node
		if mf.Name != "" {
			node = s.Node(mf.Name)
		} else {
			node = NewNode(mf.ID, nil)
			node.Transform = mf.transform()
			if err := s.link(node, mf.Parent); err != nil {
				return nil, err
			}
		}

		m := NewModel(mf.ID, node, derivative.NewList(mf.Derivatives...))
		if node.Name == "" {
			node.Name = m.ID()
		}
		if mf.UnitScale != 0 {
			m.SetScale(mf.UnitScale)
		}
		if mf.Bounds != nil {
			m.SetBounds(math.B3(
				mf.Bounds.Min[0], mf.Bounds.Min[1], mf.Bounds.Min[2],
				mf.Bounds.Max[0], mf.Bounds.Max[1], mf.Bounds.Max[2],
			))
		}
		m.SetQuality(mf.Quality)
		if d := m.derivatives.Get(derivative.Web3D, mf.Quality); d != nil {
			m.ActivateDerivative(d)
		}
		s.models = append(s.models, m)
	}

	for name, def := range defs {
		n := s.Node(name)
		n.Transform = def.transform()
		if err := s.link(n, def.Parent); err != nil {
			return nil, err
		}
	}
	for name := range defs {
		if err := s.checkCycle(s.Node(name)); err != nil {
			return nil, err
		}
	}

	f.Camera.apply(s)
	return s, nil
}

func (s *Scene) link(n *Node, parent string) error {
	if parent == "" {
		return nil
	}
	p := s.Node(parent)
	if p == nil {
		return fmt.Errorf("%w %q for %q", ErrUnknownParent, parent, n.Name)
	}
	n.Parent = p
	return nil
}

func (s *Scene) checkCycle(n *Node) error {
	seen := make(map[*Node]bool)
	for p := n; p != nil; p = p.Parent {
		if seen[p] {
			return fmt.Errorf("%w at %q", ErrParentCycle, n.Name)
		}
		seen[p] = true
	}
	return nil
}

func (n NodeFile) transform() math.Mat4 {
	scale := math.Vec3{X: 1, Y: 1, Z: 1}
	if n.Scale != nil {
		scale = math.Vec3{X: n.Scale[0], Y: n.Scale[1], Z: n.Scale[2]}
	}
	return math.Compose(
		math.Vec3{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]},
		math.Vec3{X: radians(n.Rotation[0]), Y: radians(n.Rotation[1]), Z: radians(n.Rotation[2])},
		scale,
	)
}

func (c CameraFile) apply(s *Scene) {
	cam := s.Camera
	if c.FOV > 0 {
		cam.FOV = radians(c.FOV)
	}
	if c.Aspect > 0 {
		cam.Aspect = c.Aspect
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > 0 {
		cam.Far = c.Far
	}
	cam.Yaw = radians(c.Yaw)
	cam.Pitch = radians(c.Pitch)

	if c.Fit {
		cam.FitToBounds(s.Bounds())
	} else {
		cam.Center = math.Vec3{X: c.Center[0], Y: c.Center[1], Z: c.Center[2]}
		if c.Distance > 0 {
			cam.Distance = c.Distance
		}
	}
	cam.clamp()

	s.Motion = Motion{
		Yaw:   radians(c.Orbit.Yaw),
		Pitch: radians(c.Orbit.Pitch),
		Zoom:  c.Orbit.Zoom,
	}
}
