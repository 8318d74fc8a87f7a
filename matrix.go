package ghetty

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Matrix is a row-major 4x4 matrix. Vectors are treated as columns, so
// m.Mul(n).Apply(v) == m.Apply(n.Apply(v)).
type Matrix [4]Vector

func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Column returns column index as a vector.
func (m1 Matrix) Column(index int) Vector {
	return Vector{m1[0][index], m1[1][index], m1[2][index], m1[3][index]}
}

// Mul returns m1*m2.
func (m1 Matrix) Mul(m2 Matrix) (result Matrix) {
	var columns = [4]Vector{m2.Column(X), m2.Column(Y), m2.Column(Z), m2.Column(W)}

	for row := range m1 {
		for column := range columns {
			result[row][column] = m1[row].Dot(columns[column])
		}
	}

	return
}

// Apply transforms v, each output component being the dot product of the
// matching row with v.
func (m1 Matrix) Apply(v Vector) Vector {
	return Vector{m1[0].Dot(v), m1[1].Dot(v), m1[2].Dot(v), m1[3].Dot(v)}
}

func (m1 Matrix) Transpose() Matrix {
	return Matrix{m1.Column(X), m1.Column(Y), m1.Column(Z), m1.Column(W)}
}

// Inverse inverts the matrix with Gauss-Jordan elimination. ok is false when
// the matrix is singular.
func (m1 Matrix) Inverse() (result Matrix, ok bool) {
	var left, right Matrix = m1, Identity()

	for column := 0; column < 4; column++ {
		var pivot int = column

		for row := column + 1; row < 4; row++ {
			if math32.Abs(left[row][column]) > math32.Abs(left[pivot][column]) {
				pivot = row
			}
		}

		if left[pivot][column] == 0 {
			return Matrix{}, false
		}

		left[column], left[pivot] = left[pivot], left[column]
		right[column], right[pivot] = right[pivot], right[column]

		var inverse float32 = 1 / left[column][column]
		left[column] = left[column].Scale(inverse)
		right[column] = right[column].Scale(inverse)

		for row := 0; row < 4; row++ {
			if row == column || left[row][column] == 0 {
				continue
			}

			var factor float32 = left[row][column]
			left[row] = left[row].Sub(left[column].Scale(factor))
			right[row] = right[row].Sub(right[column].Scale(factor))
		}
	}

	return right, true
}

func Translation(x, y, z float32) Matrix {
	return Matrix{
		{1, 0, 0, x},
		{0, 1, 0, y},
		{0, 0, 1, z},
		{0, 0, 0, 1},
	}
}

func Scaling(x, y, z float32) Matrix {
	return Matrix{
		{x, 0, 0, 0},
		{0, y, 0, 0},
		{0, 0, z, 0},
		{0, 0, 0, 1},
	}
}

// RotationX rotates by radians around the X axis.
func RotationX(radians float32) Matrix {
	var sin, cos float32 = math32.Sincos(radians)

	return Matrix{
		{1, 0, 0, 0},
		{0, cos, -sin, 0},
		{0, sin, cos, 0},
		{0, 0, 0, 1},
	}
}

// RotationY rotates by radians around the Y axis.
func RotationY(radians float32) Matrix {
	var sin, cos float32 = math32.Sincos(radians)

	return Matrix{
		{cos, 0, sin, 0},
		{0, 1, 0, 0},
		{-sin, 0, cos, 0},
		{0, 0, 0, 1},
	}
}

// RotationZ rotates by radians around the Z axis.
func RotationZ(radians float32) Matrix {
	var sin, cos float32 = math32.Sincos(radians)

	return Matrix{
		{cos, -sin, 0, 0},
		{sin, cos, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Quaternion converts Euler angles in degrees (roll around X, pitch around Y,
// yaw around Z) into a unit quaternion stored as (x, y, z, w).
func Quaternion(euler Vector) Vector {
	var rollHalf float32 = euler[X] * (math32.Pi / 180) * .5
	var pitchHalf float32 = euler[Y] * (math32.Pi / 180) * .5
	var yawHalf float32 = euler[Z] * (math32.Pi / 180) * .5

	sinRoll, cosRoll := math32.Sincos(rollHalf)
	sinPitch, cosPitch := math32.Sincos(pitchHalf)
	sinYaw, cosYaw := math32.Sincos(yawHalf)

	return Vector{
		sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw,
		cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw,
		cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw,
		cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw,
	}
}

// Rotation builds the rotation matrix of a unit quaternion (x, y, z, w).
func Rotation(r Vector) Matrix {
	return Matrix{
		{1 - 2*r[Y]*r[Y] - 2*r[Z]*r[Z], 2*r[X]*r[Y] - 2*r[Z]*r[W], 2*r[X]*r[Z] + 2*r[Y]*r[W], 0},
		{2*r[X]*r[Y] + 2*r[Z]*r[W], 1 - 2*r[X]*r[X] - 2*r[Z]*r[Z], 2*r[Y]*r[Z] - 2*r[X]*r[W], 0},
		{2*r[X]*r[Z] - 2*r[Y]*r[W], 2*r[Y]*r[Z] + 2*r[X]*r[W], 1 - 2*r[X]*r[X] - 2*r[Y]*r[Y], 0},
		{0, 0, 0, 1},
	}
}

// Transformation composes translation * rotation * scale, rotation given as
// Euler angles in degrees.
func Transformation(position, rotation, scale Vector) Matrix {
	var translation Matrix = Translation(position[X], position[Y], position[Z])
	var scaling Matrix = Scaling(scale[X], scale[Y], scale[Z])

	return translation.Mul(Rotation(Quaternion(rotation))).Mul(scaling)
}

// Perspective builds a symmetric frustum projection. fov is the vertical field
// of view in radians. View-space z in [-near, -far] maps to NDC z in [-1, 1]
// and -z is carried in w for the perspective divide.
func Perspective(fov, aspect, near, far float32) Matrix {
	var tangentInverse float32 = 1 / math32.Tan(fov*.5)
	var nearSubFar float32 = near - far

	return Matrix{
		{tangentInverse / aspect, 0, 0, 0},
		{0, tangentInverse, 0, 0},
		{0, 0, (near + far) / nearSubFar, (2 * near * far) / nearSubFar},
		{0, 0, -1, 0},
	}
}

// LookAt builds a right-handed view matrix. The camera looks down its local
// -Z axis, matching Perspective. up must not be parallel to target-eye.
//
// The view z axis is normalize(eye-target), the negation of the forward
// direction normalize(target-eye), so points in front of the camera get
// negative view z and positive w after Perspective.
func LookAt(eye, target, up Vector) Matrix {
	var zAxis Vector = eye.Sub(target)
	zAxis[W] = 0
	zAxis = zAxis.Normalize()

	var xAxis Vector = up.Cross(zAxis).Normalize()
	var yAxis Vector = zAxis.Cross(xAxis)

	var position Vector = eye
	position[W] = 0

	return Matrix{
		{xAxis[X], xAxis[Y], xAxis[Z], -xAxis.Dot(position)},
		{yAxis[X], yAxis[Y], yAxis[Z], -yAxis.Dot(position)},
		{zAxis[X], zAxis[Y], zAxis[Z], -zAxis.Dot(position)},
		{0, 0, 0, 1},
	}
}

func (m1 Matrix) String() string {
	return fmt.Sprintf("[%v %v %v %v]", m1[0], m1[1], m1[2], m1[3])
}
