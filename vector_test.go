package ghetty

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCross(t *testing.T) {
	var a, b Vector = Vector{1, 2, 3, 0}, Vector{4, 5, 6, 0}

	require.Equal(t, Vector{-3, 6, -3, 0}, a.Cross(b))
	require.Equal(t, float32(0), Vector{1, 2, 3, 7}.Cross(Vector{4, 5, 6, 9})[W], "cross ignores w")
}

func TestLength(t *testing.T) {
	require.Equal(t, math32.Sqrt(3), Vector{1, 1, 1, 0}.Length())
	require.Equal(t, float32(5), Vector{3, 0, 4, 0}.Length())
}

func TestArithmetic(t *testing.T) {
	var a, b Vector = Vector{1, 2, 3, 4}, Vector{5, 6, 7, 8}

	assert.Equal(t, Vector{6, 8, 10, 12}, a.Add(b))
	assert.Equal(t, Vector{-4, -4, -4, -4}, a.Sub(b))
	assert.Equal(t, Vector{5, 12, 21, 32}, a.Mul(b))
	assert.Equal(t, Vector{2, 4, 6, 8}, a.Scale(2))
	assert.Equal(t, float32(70), a.Dot(b))
}

func TestNormalize(t *testing.T) {
	var n Vector = Vector{3, 0, 4, 0}.Normalize()

	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.InDelta(t, .6, n[X], 1e-6)
	assert.InDelta(t, .8, n[Z], 1e-6)

	assert.True(t, math32.IsNaN(Zero().Normalize()[X]), "zero vector is not guarded")
}

func TestLerp(t *testing.T) {
	var a, b Vector = Vector{.25, -1, 8, 1}, Vector{.75, 3, -4, 0}

	tests := []struct {
		name   string
		a, b   Vector
		factor float32
		want   Vector
	}{
		{"start", a, b, 0, a},
		{"end", a, b, 1, b},
		{"middle", a, b, .5, Vector{.5, 1, 2, .5}},
		{"same at .3", a, a, .3, a},
		{"same at extrapolated", a, a, -2, a},
		{"extrapolate", a, b, 2, Vector{1.25, 7, -16, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.a.Lerp(tt.b, tt.factor))
			require.Equal(t, tt.want, Lerp(tt.a, tt.b, tt.factor))
		})
	}
}

func TestVertexLerp(t *testing.T) {
	var a Vertex = Vertex{Position: Point(0, 0, 0), Color: Color(1, 0, 0), Normal: Direction(0, 0, 1), UV: Vec2(0, 0)}
	var b Vertex = Vertex{Position: Point(2, 4, 8), Color: Color(0, 1, 0), Normal: Direction(0, 1, 0), UV: Vec2(1, 1)}

	require.Equal(t, a, a.Lerp(b, 0))
	require.Equal(t, b, a.Lerp(b, 1))
	require.Equal(t, a, a.Lerp(a, .7))

	var middle Vertex = a.Lerp(b, .5)
	assert.Equal(t, Point(1, 2, 4), middle.Position)
	assert.Equal(t, Color(.5, .5, 0), middle.Color)
	assert.Equal(t, Vector{0, .5, .5, 0}, middle.Normal)
	assert.Equal(t, Vec2(.5, .5), middle.UV)

	assert.Equal(t, Vec2(2, 2), b.Scale(2).UV)
}

func TestVectorString(t *testing.T) {
	require.Equal(t, "[1,2.5,-3,0]", Vector{1, 2.5, -3, 0}.String())
}
