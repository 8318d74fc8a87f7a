package ghetty

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Model is an indexed triangle mesh ready for RenderIndexed.
type Model struct {
	Vertices []Vertex
	Indices  []int
}

// Triangles returns the number of indexed triangles.
func (model *Model) Triangles() int {
	return len(model.Indices) / 3
}

type objCorner struct {
	position, uv, normal int
}

// objIndex resolves a one-based, possibly negative, OBJ reference. Zero means
// the reference was left out.
func objIndex(field string, count int) (int, error) {
	if field == "" {
		return 0, nil
	}

	index, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}

	if index < 0 {
		index += count + 1
	}

	if index <= 0 || index > count {
		return 0, fmt.Errorf("reference %s outside 1..%d", field, count)
	}

	return index, nil
}

func parseFloats(fields []string, into *Vector) error {
	for index := range fields {
		if index >= len(into) {
			break
		}

		value, err := strconv.ParseFloat(fields[index], 32)
		if err != nil {
			return err
		}

		into[index] = float32(value)
	}

	return nil
}

// LoadModel reads a Wavefront OBJ mesh. Positions, texture coordinates and
// normals are supported; faces with more than three corners are split into a
// fan. Corners sharing the same references are merged into one vertex.
// Vertex colors default to white.
func LoadModel(reader io.Reader) (*Model, error) {
	var positions, uvs, normals []Vector
	var model Model = Model{}
	var corners map[objCorner]int = make(map[objCorner]int)

	var scanner *bufio.Scanner = bufio.NewScanner(reader)
	var line int

	for scanner.Scan() {
		line++

		var fields []string = strings.Fields(scanner.Text())

		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			var vec Vector = Point(0, 0, 0)

			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", line)
			}

			if err := parseFloats(fields[1:], &vec); err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}

			positions = append(positions, vec)
		case "vt":
			var vec Vector

			if len(fields) < 3 {
				return nil, fmt.Errorf("obj line %d: texture coordinate needs 2 components", line)
			}

			if err := parseFloats(fields[1:3], &vec); err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}

			uvs = append(uvs, vec)
		case "vn":
			var vec Vector

			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: normal needs 3 components", line)
			}

			if err := parseFloats(fields[1:4], &vec); err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}

			normals = append(normals, vec)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 corners", line)
			}

			var face []int = make([]int, 0, len(fields)-1)

			for _, field := range fields[1:] {
				var parts []string = strings.Split(field, "/")
				var corner objCorner
				var err error

				if corner.position, err = objIndex(parts[0], len(positions)); err == nil && corner.position == 0 {
					err = fmt.Errorf("missing position in %q", field)
				}

				if err == nil && len(parts) > 1 {
					corner.uv, err = objIndex(parts[1], len(uvs))
				}

				if err == nil && len(parts) > 2 {
					corner.normal, err = objIndex(parts[2], len(normals))
				}

				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}

				index, ok := corners[corner]

				if !ok {
					var vertex Vertex = Vertex{Position: positions[corner.position-1], Color: Color(1, 1, 1)}

					if corner.uv > 0 {
						vertex.UV = uvs[corner.uv-1]
					}

					if corner.normal > 0 {
						vertex.Normal = normals[corner.normal-1]
					}

					index = len(model.Vertices)
					corners[corner] = index
					model.Vertices = append(model.Vertices, vertex)
				}

				face = append(face, index)
			}

			for index := 1; index+1 < len(face); index++ {
				model.Indices = append(model.Indices, face[0], face[index], face[index+1])
			}
		case "o", "g", "s", "mtllib", "usemtl":
		default:
			Logger().Warn("skipping obj line", "line", line, "keyword", fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	Logger().Debug("model loaded", "vertices", len(model.Vertices), "triangles", model.Triangles())

	return &model, nil
}

// Triangle returns a single counter-clockwise triangle in the z=0 plane with
// red, green and blue corners.
func Triangle() *Model {
	return &Model{
		Vertices: []Vertex{
			{Position: Point(-1, -1, 0), Color: Color(1, 0, 0), Normal: Direction(0, 0, 1), UV: Vec2(0, 0)},
			{Position: Point(1, -1, 0), Color: Color(0, 1, 0), Normal: Direction(0, 0, 1), UV: Vec2(1, 0)},
			{Position: Point(0, 1, 0), Color: Color(0, 0, 1), Normal: Direction(0, 0, 1), UV: Vec2(.5, 1)},
		},
		Indices: []int{0, 1, 2},
	}
}

// Quad returns a unit square spanning [-1,1] in the z=0 plane facing +Z.
func Quad() *Model {
	var model Model

	model.addFace(
		[4]Vector{Point(-1, -1, 0), Point(1, -1, 0), Point(1, 1, 0), Point(-1, 1, 0)},
		Direction(0, 0, 1),
	)

	return &model
}

// Cube returns a cube spanning [-1,1] on every axis with outward facing,
// counter-clockwise faces.
func Cube() *Model {
	var model Model

	model.addFace([4]Vector{Point(-1, -1, 1), Point(1, -1, 1), Point(1, 1, 1), Point(-1, 1, 1)}, Direction(0, 0, 1))
	model.addFace([4]Vector{Point(1, -1, -1), Point(-1, -1, -1), Point(-1, 1, -1), Point(1, 1, -1)}, Direction(0, 0, -1))
	model.addFace([4]Vector{Point(1, -1, 1), Point(1, -1, -1), Point(1, 1, -1), Point(1, 1, 1)}, Direction(1, 0, 0))
	model.addFace([4]Vector{Point(-1, -1, -1), Point(-1, -1, 1), Point(-1, 1, 1), Point(-1, 1, -1)}, Direction(-1, 0, 0))
	model.addFace([4]Vector{Point(-1, 1, 1), Point(1, 1, 1), Point(1, 1, -1), Point(-1, 1, -1)}, Direction(0, 1, 0))
	model.addFace([4]Vector{Point(-1, -1, -1), Point(1, -1, -1), Point(1, -1, 1), Point(-1, -1, 1)}, Direction(0, -1, 0))

	return &model
}

var faceUVs = [4]Vector{Vec2(0, 0), Vec2(1, 0), Vec2(1, 1), Vec2(0, 1)}

func (model *Model) addFace(corners [4]Vector, normal Vector) {
	var base int = len(model.Vertices)

	for index := range corners {
		model.Vertices = append(model.Vertices, Vertex{
			Position: corners[index],
			Color:    Color(1, 1, 1),
			Normal:   normal,
			UV:       faceUVs[index],
		})
	}

	model.Indices = append(model.Indices, base, base+1, base+2, base, base+2, base+3)
}
