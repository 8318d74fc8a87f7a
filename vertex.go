package ghetty

// Varying is the capability the renderer needs from a per-vertex payload. The
// payload is clipped and interpolated in lockstep with the position, without
// the renderer knowing what it holds.
//
// Lerp blends the receiver towards to by factor, which may fall slightly
// outside [0,1] at clip intersections. Scale multiplies every component.
type Varying[V any] interface {
	Lerp(to V, factor float32) V
	Scale(factor float32) V
}

// Vertex is a general purpose payload carrying the attributes shaders usually
// need.
type Vertex struct {
	Position Vector
	Color    Vector
	Normal   Vector
	UV       Vector
}

func (v1 Vertex) Lerp(v2 Vertex, factor float32) Vertex {
	return Vertex{
		Position: v1.Position.Lerp(v2.Position, factor),
		Color:    v1.Color.Lerp(v2.Color, factor),
		Normal:   v1.Normal.Lerp(v2.Normal, factor),
		UV:       v1.UV.Lerp(v2.UV, factor),
	}
}

func (v1 Vertex) Scale(factor float32) Vertex {
	return Vertex{
		Position: v1.Position.Scale(factor),
		Color:    v1.Color.Scale(factor),
		Normal:   v1.Normal.Scale(factor),
		UV:       v1.UV.Scale(factor),
	}
}

