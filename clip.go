package ghetty

import "fmt"

// ShadedVertex is a vertex shader output: a position, in clip space until it
// is projected, and the payload interpolated alongside it.
type ShadedVertex[V any] struct {
	Position   Vector
	Attributes V
}

// lerpShaded blends position and attributes with the same factor.
func lerpShaded[V Varying[V]](v1, v2 ShadedVertex[V], factor float32) ShadedVertex[V] {
	return ShadedVertex[V]{
		Position:   v1.Position.Lerp(v2.Position, factor),
		Attributes: v1.Attributes.Lerp(v2.Attributes, factor),
	}
}

// Plane identifies one of the six clip-space frustum planes. The order is
// fixed and is the order planes are clipped in.
type Plane uint8

const (
	PlaneNX Plane = iota // x < -w
	PlaneX               // x > w
	PlaneNY              // y < -w
	PlaneY               // y > w
	PlaneNZ              // z < -w
	PlaneZ               // z > w

	planeCount
)

var planeNames = [planeCount]string{"-X", "+X", "-Y", "+Y", "-Z", "+Z"}

func (plane Plane) String() string {
	if plane < planeCount {
		return planeNames[plane]
	}

	return fmt.Sprintf("Plane(%d)", uint8(plane))
}

func (plane Plane) Mask() Outcode {
	return 1 << plane
}

// Outcode has one bit set per plane a point lies outside of.
type Outcode uint8

const allPlanes Outcode = 1<<planeCount - 1

// ComputeOutcode classifies a clip-space point. A point exactly on a plane is
// inside it.
func ComputeOutcode(position Vector) (code Outcode) {
	var w float32 = position[W]

	if position[X] < -w {
		code |= PlaneNX.Mask()
	}

	if position[X] > w {
		code |= PlaneX.Mask()
	}

	if position[Y] < -w {
		code |= PlaneNY.Mask()
	}

	if position[Y] > w {
		code |= PlaneY.Mask()
	}

	if position[Z] < -w {
		code |= PlaneNZ.Mask()
	}

	if position[Z] > w {
		code |= PlaneZ.Mask()
	}

	return
}

// IntersectionFactor returns t such that Lerp(start, end, t) lies on plane.
func IntersectionFactor(start, end Vector, plane Plane) float32 {
	switch plane {
	case PlaneNX:
		return (start[X] + start[W]) / ((start[X] - end[X]) + (start[W] - end[W]))
	case PlaneX:
		return (start[X] - start[W]) / ((start[X] - end[X]) - (start[W] - end[W]))
	case PlaneNY:
		return (start[Y] + start[W]) / ((start[Y] - end[Y]) + (start[W] - end[W]))
	case PlaneY:
		return (start[Y] - start[W]) / ((start[Y] - end[Y]) - (start[W] - end[W]))
	case PlaneNZ:
		return (start[Z] + start[W]) / ((start[Z] - end[Z]) + (start[W] - end[W]))
	case PlaneZ:
		return (start[Z] - start[W]) / ((start[Z] - end[Z]) - (start[W] - end[W]))
	}

	panic(fmt.Sprintf("ghetty: unknown clip plane %d", plane))
}

// nextPlane returns the first plane at or after start whose bit is set in code.
func nextPlane(start Plane, code Outcode) (Plane, bool) {
	for plane := start; plane < planeCount; plane++ {
		if code&plane.Mask() != 0 {
			return plane, true
		}
	}

	return planeCount, false
}

// ClipResult reports what ClipTriangle did with a triangle.
type ClipResult uint8

const (
	// Inside means every vertex was inside the frustum and the triangle was
	// emitted unchanged.
	Inside ClipResult = iota
	// Rejected means all vertices were outside one plane; nothing was emitted.
	Rejected
	// Clipped means the triangle crossed at least one plane and the pieces
	// inside the frustum, if any, were emitted.
	Clipped
)

// ClipTriangle clips a clip-space triangle against the view frustum and calls
// emit for every resulting triangle. Emitted triangles keep the winding of the
// input.
func ClipTriangle[V Varying[V]](p0, p1, p2 ShadedVertex[V], emit func(p0, p1, p2 ShadedVertex[V])) ClipResult {
	var c0, c1, c2 Outcode = ComputeOutcode(p0.Position), ComputeOutcode(p1.Position), ComputeOutcode(p2.Position)

	if c0&c1&c2 != 0 {
		return Rejected
	}

	if c0|c1|c2 == 0 {
		emit(p0, p1, p2)
		return Inside
	}

	clipAgainst(p0, p1, p2, PlaneNX, emit)

	return Clipped
}

func intersect[V Varying[V]](inside, outside ShadedVertex[V], plane Plane) ShadedVertex[V] {
	return lerpShaded(inside, outside, IntersectionFactor(inside.Position, outside.Position, plane))
}

// clipAgainst clips against the planes from start onwards. Each step splits
// on one plane and recurses on the next, so depth is bounded by planeCount.
func clipAgainst[V Varying[V]](p0, p1, p2 ShadedVertex[V], start Plane, emit func(p0, p1, p2 ShadedVertex[V])) {
	var c0, c1, c2 Outcode = ComputeOutcode(p0.Position), ComputeOutcode(p1.Position), ComputeOutcode(p2.Position)
	var pending Outcode = allPlanes &^ (1<<start - 1)

	if c0&c1&c2&pending != 0 {
		return
	}

	plane, ok := nextPlane(start, (c0|c1|c2)&pending)
	if !ok {
		emit(p0, p1, p2)
		return
	}

	var mask Outcode = plane.Mask()

	if (c0^c1^c2)&mask == 0 {
		// Two vertices outside, rotate the inside one to the front.
		switch {
		case c0&mask == 0:
		case c1&mask == 0:
			p0, p1, p2 = p1, p2, p0
		default:
			p0, p1, p2 = p2, p0, p1
		}

		clipAgainst(p0, intersect(p0, p1, plane), intersect(p0, p2, plane), plane+1, emit)

		return
	}

	// One vertex outside, rotate it to the front. The remaining quad is split
	// into two triangles.
	switch {
	case c0&mask != 0:
	case c1&mask != 0:
		p0, p1, p2 = p1, p2, p0
	default:
		p0, p1, p2 = p2, p0, p1
	}

	var p10, p20 ShadedVertex[V] = intersect(p1, p0, plane), intersect(p2, p0, plane)

	clipAgainst(p2, p20, p1, plane+1, emit)
	clipAgainst(p1, p20, p10, plane+1, emit)
}
