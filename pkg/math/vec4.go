package math

// Vec4 is a 4-component homogeneous vector.
type Vec4 [4]float32

// PerspectiveDivide returns (x/w, y/w, z/w). A zero w leaves the components
// undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v[3] != 0 {
		return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return Vec3{v[0], v[1], v[2]}
}
