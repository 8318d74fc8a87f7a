package ghetty

// VertexShader turns a model payload into a clip-space position and the
// payload to interpolate across the triangle.
type VertexShader[V any] interface {
	Transform(attributes V) (Vector, V)
}

// FragmentShader turns an interpolated payload into an RGBA color with
// components in [0,1].
type FragmentShader[V any] interface {
	Shade(attributes V) Vector
}

// VertexShaderFunc adapts a function to VertexShader.
type VertexShaderFunc[V any] func(attributes V) (Vector, V)

func (shader VertexShaderFunc[V]) Transform(attributes V) (Vector, V) {
	return shader(attributes)
}

// FragmentShaderFunc adapts a function to FragmentShader.
type FragmentShaderFunc[V any] func(attributes V) Vector

func (shader FragmentShaderFunc[V]) Shade(attributes V) Vector {
	return shader(attributes)
}

// Shader bundles both stages.
type Shader[V any] struct {
	Vertex   VertexShader[V]
	Fragment FragmentShader[V]
}

// MVP returns a vertex shader applying matrix to Vertex.Position and passing
// the payload through unchanged.
func MVP(matrix Matrix) VertexShader[Vertex] {
	return VertexShaderFunc[Vertex](func(vertex Vertex) (Vector, Vertex) {
		return matrix.Apply(vertex.Position), vertex
	})
}

// VertexColor is a fragment shader returning the interpolated Vertex.Color.
var VertexColor FragmentShader[Vertex] = FragmentShaderFunc[Vertex](func(vertex Vertex) Vector {
	return vertex.Color
})

// Textured returns a fragment shader sampling texture at Vertex.UV, modulated
// by Vertex.Color.
func Textured(texture *Texture, filter Filter) FragmentShader[Vertex] {
	return FragmentShaderFunc[Vertex](func(vertex Vertex) Vector {
		return texture.Sample(vertex.UV[X], vertex.UV[Y], filter).Mul(vertex.Color)
	})
}
