package ghetty

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Component indices into a Vector.
const (
	X = 0
	Y = 1
	Z = 2
	W = 3
)

// Vector is a homogeneous four component vector. The same type is used for
// points (w=1), directions (w=0), RGBA colors and clip-space positions.
type Vector [4]float32

// Zero returns the zero vector.
func Zero() Vector {
	return Vector{}
}

// Point returns a position with w=1.
func Point(x, y, z float32) Vector {
	return Vector{x, y, z, 1}
}

// Direction returns a direction with w=0.
func Direction(x, y, z float32) Vector {
	return Vector{x, y, z, 0}
}

// Vec2 returns a two component vector, typically a texture coordinate.
func Vec2(x, y float32) Vector {
	return Vector{x, y, 0, 0}
}

// Color returns an opaque RGBA color.
func Color(r, g, b float32) Vector {
	return Vector{r, g, b, 1}
}

func (v1 Vector) Add(v2 Vector) Vector {
	return Vector{v1[X] + v2[X], v1[Y] + v2[Y], v1[Z] + v2[Z], v1[W] + v2[W]}
}

func (v1 Vector) Sub(v2 Vector) Vector {
	return Vector{v1[X] - v2[X], v1[Y] - v2[Y], v1[Z] - v2[Z], v1[W] - v2[W]}
}

// Mul multiplies component-wise.
func (v1 Vector) Mul(v2 Vector) Vector {
	return Vector{v1[X] * v2[X], v1[Y] * v2[Y], v1[Z] * v2[Z], v1[W] * v2[W]}
}

// Dot is the four component dot product.
func (v1 Vector) Dot(v2 Vector) float32 {
	return v1[X]*v2[X] + v1[Y]*v2[Y] + v1[Z]*v2[Z] + v1[W]*v2[W]
}

// Cross is the three component cross product. W is ignored and the result is
// a direction.
func (v1 Vector) Cross(v2 Vector) Vector {
	return Vector{
		v1[Y]*v2[Z] - v1[Z]*v2[Y],
		v1[Z]*v2[X] - v1[X]*v2[Z],
		v1[X]*v2[Y] - v1[Y]*v2[X],
		0,
	}
}

func (v1 Vector) Scale(factor float32) Vector {
	return Vector{v1[X] * factor, v1[Y] * factor, v1[Z] * factor, v1[W] * factor}
}

func (v1 Vector) Length() float32 {
	return math32.Sqrt(v1.Dot(v1))
}

// Normalize scales the vector to unit length. The zero vector yields NaN
// components.
func (v1 Vector) Normalize() Vector {
	return v1.Scale(1 / v1.Length())
}

// Lerp returns v1 + (v2-v1)*factor. Factors outside [0,1] extrapolate.
func (v1 Vector) Lerp(v2 Vector, factor float32) Vector {
	return v1.Add(v2.Sub(v1).Scale(factor))
}

// Lerp is the free function form of Vector.Lerp.
func Lerp(a, b Vector, factor float32) Vector {
	return a.Lerp(b, factor)
}

func (v1 Vector) String() string {
	return fmt.Sprintf("[%v,%v,%v,%v]", v1[X], v1[Y], v1[Z], v1[W])
}
