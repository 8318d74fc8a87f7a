package ghetty

import (
	"cmp"
	"slices"

	"github.com/chewxy/math32"
)

// segment is a triangle edge in screen space with start above end.
type segment[V any] struct {
	start, end ShadedVertex[V]
}

func newSegment[V any](a, b ShadedVertex[V]) segment[V] {
	if a.Position[Y] < b.Position[Y] {
		return segment[V]{a, b}
	}

	return segment[V]{b, a}
}

func (s segment[V]) spanY() float32 {
	return s.end.Position[Y] - s.start.Position[Y]
}

// atY returns the point of the edge at screen row center y.
func atY[V Varying[V]](s segment[V], y float32) ShadedVertex[V] {
	return lerpShaded(s.start, s.end, (y-s.start.Position[Y])/s.spanY())
}

// Area is twice the signed screen-space area of a triangle. Screen space has
// y pointing down, so triangles counter-clockwise in NDC are negative.
func Area(p0, p1, p2 Vector) float32 {
	return (p1[X]-p0[X])*(p2[Y]-p0[Y]) - (p1[Y]-p0[Y])*(p2[X]-p0[X])
}

func finite(value float32) bool {
	return !math32.IsNaN(value) && !math32.IsInf(value, 0)
}

// pixelStart returns the first pixel whose center is at or past edge, clamped
// to [0, limit].
func pixelStart(edge float32, limit int) int {
	return max(0, min(limit, int(math32.Ceil(edge-.5))))
}

// project divides by w and maps NDC to the viewport. The post-divide depth is
// kept in Z and 1/w in W. When perspective is set the attributes are
// premultiplied by 1/w so they can be interpolated linearly on screen.
func (renderer *Renderer[V]) project(vertex ShadedVertex[V]) (ShadedVertex[V], bool) {
	var w float32 = vertex.Position[W]

	if !(w > 0) {
		return vertex, false
	}

	var inverse float32 = 1 / w
	var ndc Vector = vertex.Position.Scale(inverse)

	var screen Vector = Vector{
		(ndc[X] + 1) * .5 * float32(renderer.buffer.Width),
		(1 - ndc[Y]) * .5 * float32(renderer.buffer.Height),
		ndc[Z],
		inverse,
	}

	if !finite(screen[X]) || !finite(screen[Y]) || !finite(screen[Z]) {
		return vertex, false
	}

	if renderer.perspectiveCorrect {
		vertex.Attributes = vertex.Attributes.Scale(inverse)
	}

	return ShadedVertex[V]{screen, vertex.Attributes}, true
}

func (renderer *Renderer[V]) culled(area float32) bool {
	switch renderer.cull {
	case CullBack:
		return area > 0
	case CullFront:
		return area < 0
	}

	return false
}

// rasterize projects a triangle that lies inside the frustum and scan
// converts it. The edge with the largest vertical span is paired with each of
// the other two to cover the upper and lower halves.
func (renderer *Renderer[V]) rasterize(p0, p1, p2 ShadedVertex[V]) {
	s0, ok0 := renderer.project(p0)
	s1, ok1 := renderer.project(p1)
	s2, ok2 := renderer.project(p2)

	if !ok0 || !ok1 || !ok2 {
		renderer.stats.Degenerate++
		return
	}

	if renderer.culled(Area(s0.Position, s1.Position, s2.Position)) {
		renderer.stats.Culled++
		return
	}

	renderer.stats.Rasterized++

	var segments = [3]segment[V]{newSegment(s0, s1), newSegment(s0, s2), newSegment(s1, s2)}

	slices.SortStableFunc(segments[:], func(a, b segment[V]) int {
		return cmp.Compare(b.spanY(), a.spanY())
	})

	renderer.rasterizeHalf(segments[0], segments[1])
	renderer.rasterizeHalf(segments[0], segments[2])
}

// rasterizeHalf fills the rows whose centers fall in [minor.start, minor.end).
// Edges with no vertical extent cover no rows and are skipped.
func (renderer *Renderer[V]) rasterizeHalf(major, minor segment[V]) {
	if !(minor.spanY() > 0) {
		return
	}

	var yStart int = pixelStart(minor.start.Position[Y], renderer.buffer.Height)
	var yEnd int = pixelStart(minor.end.Position[Y], renderer.buffer.Height)

	for y := yStart; y < yEnd; y++ {
		var center float32 = float32(y) + .5

		var left, right ShadedVertex[V] = atY(minor, center), atY(major, center)

		if left.Position[X] > right.Position[X] {
			left, right = right, left
		}

		renderer.scanline(y, left, right)
	}
}

// scanline fills the columns whose centers fall in [left, right).
func (renderer *Renderer[V]) scanline(y int, left, right ShadedVertex[V]) {
	var width float32 = right.Position[X] - left.Position[X]

	if !(width > 0) {
		return
	}

	var xStart int = pixelStart(left.Position[X], renderer.buffer.Width)
	var xEnd int = pixelStart(right.Position[X], renderer.buffer.Width)

	for x := xStart; x < xEnd; x++ {
		var factor float32 = (float32(x) + .5 - left.Position[X]) / width

		renderer.fragment(x, y, lerpShaded(left, right, factor))
	}
}

// fragment depth tests and shades a single pixel.
func (renderer *Renderer[V]) fragment(x, y int, point ShadedVertex[V]) {
	if !renderer.buffer.TestAndSetDepth(x, y, point.Position[Z]) {
		renderer.stats.DepthRejected++
		return
	}

	var attributes V = point.Attributes

	if renderer.perspectiveCorrect {
		attributes = attributes.Scale(1 / point.Position[W])
	}

	renderer.stats.Fragments++
	renderer.buffer.Set(x, y, renderer.shader.Fragment.Shade(attributes))
}
