package ghetty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scalar is a single float payload, enough to follow interpolation.
type scalar struct {
	Value float32
}

func (s1 scalar) Lerp(s2 scalar, factor float32) scalar {
	return scalar{s1.Value + (s2.Value-s1.Value)*factor}
}

func (s1 scalar) Scale(factor float32) scalar {
	return scalar{s1.Value * factor}
}

func shaded(position Vector, value float32) ShadedVertex[scalar] {
	return ShadedVertex[scalar]{position, scalar{value}}
}

type clipped [][3]ShadedVertex[scalar]

func clip(p0, p1, p2 ShadedVertex[scalar]) (clipped, ClipResult) {
	var triangles clipped

	var result ClipResult = ClipTriangle(p0, p1, p2, func(p0, p1, p2 ShadedVertex[scalar]) {
		triangles = append(triangles, [3]ShadedVertex[scalar]{p0, p1, p2})
	})

	return triangles, result
}

func ndcArea(triangle [3]ShadedVertex[scalar]) float32 {
	var project = func(vertex ShadedVertex[scalar]) Vector {
		return vertex.Position.Scale(1 / vertex.Position[W])
	}

	var a, b, c Vector = project(triangle[0]), project(triangle[1]), project(triangle[2])

	return (b[X]-a[X])*(c[Y]-a[Y]) - (b[Y]-a[Y])*(c[X]-a[X])
}

func requireInsideFrustum(t *testing.T, triangles clipped) {
	t.Helper()

	const epsilon = 1e-5

	for _, triangle := range triangles {
		for _, vertex := range triangle {
			var p Vector = vertex.Position
			var w float32 = p[W] + epsilon

			require.True(t, p[X] >= -w && p[X] <= w, "x outside: %v", p)
			require.True(t, p[Y] >= -w && p[Y] <= w, "y outside: %v", p)
			require.True(t, p[Z] >= -w && p[Z] <= w, "z outside: %v", p)
		}
	}
}

func TestComputeOutcode(t *testing.T) {
	tests := []struct {
		name     string
		position Vector
		want     Outcode
	}{
		{"origin", Point(0, 0, 0), 0},
		{"on every plane", Vector{1, -1, 1, 1}, 0},
		{"left", Point(-2, 0, 0), PlaneNX.Mask()},
		{"right", Point(2, 0, 0), PlaneX.Mask()},
		{"below", Point(0, -2, 0), PlaneNY.Mask()},
		{"above", Point(0, 2, 0), PlaneY.Mask()},
		{"near", Point(0, 0, -2), PlaneNZ.Mask()},
		{"far", Point(0, 0, 2), PlaneZ.Mask()},
		{"corner", Point(2, -2, 2), PlaneX.Mask() | PlaneNY.Mask() | PlaneZ.Mask()},
		{"scaled by w", Vector{3, 0, 0, 4}, 0},
		// With w < 0 the range [-w, w] is empty, so both planes of every
		// axis report the point outside.
		{"behind", Vector{0, 0, 0, -1}, allPlanes},
		{"behind off axis", Vector{.5, 3, -2, -1}, allPlanes &^ PlaneNY.Mask() &^ PlaneZ.Mask()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ComputeOutcode(tt.position))
		})
	}
}

func TestIntersectionFactor(t *testing.T) {
	var inside Vector = Point(0, 0, 0)

	tests := []struct {
		plane Plane
		axis  int
		end   Vector
		want  float32
	}{
		{PlaneNX, X, Point(-3, 0, 0), -1},
		{PlaneX, X, Point(3, 0, 0), 1},
		{PlaneNY, Y, Point(0, -3, 0), -1},
		{PlaneY, Y, Point(0, 3, 0), 1},
		{PlaneNZ, Z, Point(0, 0, -3), -1},
		{PlaneZ, Z, Point(0, 0, 3), 1},
	}

	for _, tt := range tests {
		t.Run(tt.plane.String(), func(t *testing.T) {
			var factor float32 = IntersectionFactor(inside, tt.end, tt.plane)
			require.InDelta(t, 1./3., factor, 1e-6)

			var point Vector = Lerp(inside, tt.end, factor)
			assert.InDelta(t, tt.want, point[tt.axis], 1e-6)
		})
	}

	assert.Panics(t, func() { IntersectionFactor(inside, Point(3, 0, 0), planeCount) })
}

func TestClipInside(t *testing.T) {
	var p0, p1, p2 = shaded(Point(-.5, -.5, 0), 0), shaded(Point(.5, -.5, 0), .5), shaded(Point(0, .5, 0), 1)

	triangles, result := clip(p0, p1, p2)

	require.Equal(t, Inside, result)
	require.Equal(t, clipped{{p0, p1, p2}}, triangles)
}

func TestClipRejected(t *testing.T) {
	tests := []struct {
		name       string
		p0, p1, p2 Vector
	}{
		{"right", Point(2, 0, 0), Point(3, 1, 0), Point(2, 1, 0)},
		{"far", Point(0, 0, 2), Point(1, 0, 3), Point(0, 1, 5)},
		{"behind", Vector{0, 0, 0, -1}, Vector{1, 0, 0, -1}, Vector{0, 1, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triangles, result := clip(shaded(tt.p0, 0), shaded(tt.p1, 0), shaded(tt.p2, 0))

			require.Equal(t, Rejected, result)
			require.Empty(t, triangles)
		})
	}
}

func TestClipOneOutside(t *testing.T) {
	var p0, p1, p2 = shaded(Point(2, 0, 0), 1), shaded(Point(0, -.5, 0), 0), shaded(Point(0, .5, 0), .5)

	triangles, result := clip(p0, p1, p2)

	require.Equal(t, Clipped, result)
	require.Len(t, triangles, 2)
	requireInsideFrustum(t, triangles)

	var expected = map[Vector]float32{
		p1.Position: p1.Attributes.Value,
		p2.Position: p2.Attributes.Value,
	}

	for _, inside := range []ShadedVertex[scalar]{p1, p2} {
		var factor float32 = IntersectionFactor(inside.Position, p0.Position, PlaneX)
		var point ShadedVertex[scalar] = lerpShaded(inside, p0, factor)

		expected[point.Position] = point.Attributes.Value
	}

	var sign bool = ndcArea([3]ShadedVertex[scalar]{p0, p1, p2}) > 0

	for _, triangle := range triangles {
		assert.Equal(t, sign, ndcArea(triangle) > 0, "winding is kept")

		for _, vertex := range triangle {
			value, ok := expected[vertex.Position]
			require.True(t, ok, "unexpected vertex %v", vertex.Position)
			assert.Equal(t, value, vertex.Attributes.Value)
		}
	}
}

func TestClipTwoOutside(t *testing.T) {
	var p0, p1, p2 = shaded(Point(0, 0, 0), 0), shaded(Point(0, 3, 0), 1), shaded(Point(-.5, 3, 0), 1)

	triangles, result := clip(p0, p1, p2)

	require.Equal(t, Clipped, result)
	require.Len(t, triangles, 1)
	requireInsideFrustum(t, triangles)

	var triangle [3]ShadedVertex[scalar] = triangles[0]

	assert.Equal(t, p0, triangle[0])
	assert.Less(t, float32(0), ndcArea(triangle))

	for _, vertex := range triangle[1:] {
		assert.InDelta(t, 1, vertex.Position[Y], 1e-6)
		assert.InDelta(t, 1./3., vertex.Attributes.Value, 1e-6)
	}
}

func TestClipManyPlanes(t *testing.T) {
	tests := []struct {
		name       string
		p0, p1, p2 Vector
	}{
		{"covers the frustum", Point(-10, -10, 0), Point(10, -10, 0), Point(0, 10, 0)},
		{"crosses near and far", Point(-.5, -.5, -3), Point(.5, -.5, 3), Point(0, .5, 0)},
		{"clockwise", Point(-4, 4, .5), Point(4, 4, .5), Point(0, -4, -.5)},
		{"behind the camera", Point(-.5, -.5, 0), Point(.5, -.5, 0), Vector{0, .5, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input = [3]ShadedVertex[scalar]{shaded(tt.p0, 0), shaded(tt.p1, 0), shaded(tt.p2, 0)}

			triangles, result := clip(input[0], input[1], input[2])

			require.Equal(t, Clipped, result)
			require.NotEmpty(t, triangles)
			requireInsideFrustum(t, triangles)

			if input[0].Position[W] > 0 && input[1].Position[W] > 0 && input[2].Position[W] > 0 {
				var sign bool = ndcArea(input) > 0

				for _, triangle := range triangles {
					var area float32 = ndcArea(triangle)

					if area > 1e-6 || area < -1e-6 {
						assert.Equal(t, sign, area > 0, "winding is kept")
					}
				}
			}
		})
	}
}

func TestClipStraddlingRejectedAfterSplit(t *testing.T) {
	// No single plane has all three vertices outside, but the piece left
	// after clipping +X lies entirely above +Y.
	var p0, p1, p2 = shaded(Point(.9, 1.5, 0), 0), shaded(Point(3, .95, 0), 0), shaded(Point(3, 3, 0), 0)

	triangles, result := clip(p0, p1, p2)

	require.Equal(t, Clipped, result)
	require.Empty(t, triangles)
}
