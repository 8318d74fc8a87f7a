package ghetty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrInvalidSize      = errors.New("ghetty: width and height must be positive")
	ErrNoVertexShader   = errors.New("ghetty: vertex shader not set")
	ErrNoFragmentShader = errors.New("ghetty: fragment shader not set")
	ErrIndexOutOfRange  = errors.New("ghetty: index out of range")
)

// CullMode selects which triangles are dropped by orientation. Front faces
// are counter-clockwise in normalized device coordinates.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

func (mode CullMode) String() string {
	switch mode {
	case CullNone:
		return "none"
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	}

	return fmt.Sprintf("CullMode(%d)", uint8(mode))
}

// Stats counts pipeline events since the last Clear.
type Stats struct {
	Vertices  int // vertex shader invocations
	Triangles int // triangles assembled

	Rejected   int // entirely outside one frustum plane
	Clipped    int // crossing at least one frustum plane
	Degenerate int // non-finite or w <= 0 after clipping
	Culled     int
	Rasterized int // triangles scan converted, after clipping

	Fragments     int // fragments shaded and written
	DepthRejected int
}

func (stats Stats) sub(previous Stats) Stats {
	return Stats{
		Vertices:      stats.Vertices - previous.Vertices,
		Triangles:     stats.Triangles - previous.Triangles,
		Rejected:      stats.Rejected - previous.Rejected,
		Clipped:       stats.Clipped - previous.Clipped,
		Degenerate:    stats.Degenerate - previous.Degenerate,
		Culled:        stats.Culled - previous.Culled,
		Rasterized:    stats.Rasterized - previous.Rasterized,
		Fragments:     stats.Fragments - previous.Fragments,
		DepthRejected: stats.DepthRejected - previous.DepthRejected,
	}
}

// Renderer owns a color and a depth buffer and draws triangle lists into them
// through a vertex and a fragment shader.
//
// A Renderer is not safe for concurrent use. Clear, Render, RenderIndexed and
// WithColorBuffer must be serialized by the caller.
type Renderer[V Varying[V]] struct {
	shader     Shader[V]
	clearColor [BytesPerPixel]byte

	cull               CullMode
	perspectiveCorrect bool

	buffer frameBuffer
	stats  Stats

	shaded []ShadedVertex[V]
	emit   func(p0, p1, p2 ShadedVertex[V])
}

// NewRenderer allocates buffers for a width x height target. It panics with
// ErrInvalidSize if either dimension is not positive. The buffers never
// change size; use a new Renderer for a different resolution.
func NewRenderer[V Varying[V]](width, height int) *Renderer[V] {
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height))
	}

	var renderer *Renderer[V] = &Renderer[V]{
		perspectiveCorrect: true,
		buffer:             newFrameBuffer(width, height),
	}

	renderer.emit = renderer.rasterize

	Logger().Debug("renderer created", "width", width, "height", height)

	return renderer
}

func (renderer *Renderer[V]) Width() int  { return renderer.buffer.Width }
func (renderer *Renderer[V]) Height() int { return renderer.buffer.Height }

func (renderer *Renderer[V]) SetVertexShader(shader VertexShader[V]) {
	renderer.shader.Vertex = shader
}

func (renderer *Renderer[V]) SetFragmentShader(shader FragmentShader[V]) {
	renderer.shader.Fragment = shader
}

func (renderer *Renderer[V]) SetShader(shader Shader[V]) {
	renderer.shader = shader
}

// SetClearColor sets the color used by Clear, components in [0,1].
func (renderer *Renderer[V]) SetClearColor(r, g, b float32) {
	renderer.clearColor = [BytesPerPixel]byte{ToByte(r), ToByte(g), ToByte(b)}
}

func (renderer *Renderer[V]) SetCullMode(mode CullMode) {
	renderer.cull = mode
}

// SetPerspectiveCorrect toggles perspective-correct attribute interpolation.
// When off, attributes are interpolated linearly in screen space.
func (renderer *Renderer[V]) SetPerspectiveCorrect(enabled bool) {
	renderer.perspectiveCorrect = enabled
}

// Clear fills the color buffer with the clear color, resets every depth to
// +Inf and zeroes the statistics.
func (renderer *Renderer[V]) Clear() {
	renderer.buffer.Clear(renderer.clearColor)
	renderer.stats = Stats{}
}

// Stats returns the counters accumulated since the last Clear.
func (renderer *Renderer[V]) Stats() Stats {
	return renderer.stats
}

// Depth returns the stored depth at a pixel.
func (renderer *Renderer[V]) Depth(x, y int) float32 {
	return renderer.buffer.Depth[y*renderer.buffer.Width+x]
}

// WithColorBuffer calls callback with the packed RGB color buffer, 3 bytes
// per pixel, row-major from the top-left. The slice must not be modified or
// retained after callback returns.
func (renderer *Renderer[V]) WithColorBuffer(callback func(frame []byte)) {
	callback(renderer.buffer.Frame)
}

func (renderer *Renderer[V]) checkShaders() {
	if renderer.shader.Vertex == nil {
		panic(ErrNoVertexShader)
	}

	if renderer.shader.Fragment == nil {
		panic(ErrNoFragmentShader)
	}
}

// transform runs the vertex shader exactly once per input vertex.
func (renderer *Renderer[V]) transform(vertices []V) []ShadedVertex[V] {
	renderer.shaded = renderer.shaded[:0]

	for index := range vertices {
		position, attributes := renderer.shader.Vertex.Transform(vertices[index])
		renderer.shaded = append(renderer.shaded, ShadedVertex[V]{position, attributes})
	}

	renderer.stats.Vertices += len(vertices)

	return renderer.shaded
}

// Render draws vertices as a triangle list. Trailing vertices that do not
// complete a triangle are shaded but not drawn. It panics if a shader is
// missing.
func (renderer *Renderer[V]) Render(vertices []V) {
	renderer.checkShaders()

	var before Stats = renderer.stats
	var shaded []ShadedVertex[V] = renderer.transform(vertices)

	for index := 0; index+2 < len(shaded); index += 3 {
		renderer.draw(shaded[index], shaded[index+1], shaded[index+2])
	}

	renderer.logDraw("render", before)
}

// RenderIndexed draws triangles selected by indices into vertices. Each
// vertex is shaded once regardless of how many triangles use it. It panics
// if a shader is missing or an index is out of range; nothing is drawn in
// that case.
func (renderer *Renderer[V]) RenderIndexed(vertices []V, indices []int) {
	renderer.checkShaders()

	var used []int = indices[:len(indices)/3*3]

	for position, index := range used {
		if index < 0 || index >= len(vertices) {
			panic(fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, position, index, len(vertices)))
		}
	}

	var before Stats = renderer.stats
	var shaded []ShadedVertex[V] = renderer.transform(vertices)

	for index := 0; index < len(used); index += 3 {
		renderer.draw(shaded[used[index]], shaded[used[index+1]], shaded[used[index+2]])
	}

	renderer.logDraw("render indexed", before)
}

func (renderer *Renderer[V]) draw(p0, p1, p2 ShadedVertex[V]) {
	renderer.stats.Triangles++

	switch ClipTriangle(p0, p1, p2, renderer.emit) {
	case Rejected:
		renderer.stats.Rejected++
	case Clipped:
		renderer.stats.Clipped++
	}
}

func (renderer *Renderer[V]) logDraw(message string, before Stats) {
	var logger *slog.Logger = Logger()

	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	var delta Stats = renderer.stats.sub(before)

	logger.Debug(message,
		slog.Int("vertices", delta.Vertices),
		slog.Int("triangles", delta.Triangles),
		slog.Int("rejected", delta.Rejected),
		slog.Int("clipped", delta.Clipped),
		slog.Int("degenerate", delta.Degenerate),
		slog.Int("culled", delta.Culled),
		slog.Int("rasterized", delta.Rasterized),
		slog.Int("fragments", delta.Fragments),
		slog.Int("depth_rejected", delta.DepthRejected),
	)
}
