package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"samuelscerri/ghetty"
)

// Triple is a three component YAML sequence.
type Triple []float32

func (triple Triple) vector(w float32, fallback ghetty.Vector) ghetty.Vector {
	if len(triple) < 3 {
		return fallback
	}

	return ghetty.Vector{triple[0], triple[1], triple[2], w}
}

type CameraConfig struct {
	FOV    float32 `yaml:"fov"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
	Eye    Triple  `yaml:"eye"`
	Target Triple  `yaml:"target"`
	Up     Triple  `yaml:"up"`
	Orbit  float32 `yaml:"orbit"`
}

type MeshConfig struct {
	Builtin  string `yaml:"builtin,omitempty"`
	OBJ      string `yaml:"obj,omitempty"`
	Texture  string `yaml:"texture,omitempty"`
	Filter   string `yaml:"filter,omitempty"`
	Position Triple `yaml:"position,omitempty"`
	Rotation Triple `yaml:"rotation,omitempty"`
	Spin     Triple `yaml:"spin,omitempty"`
	Scale    Triple `yaml:"scale,omitempty"`
	Tint     Triple `yaml:"tint,omitempty"`
	Cull     string `yaml:"cull,omitempty"`
}

// SceneConfig describes what to render and where to write it.
type SceneConfig struct {
	Name        string       `yaml:"name"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Clear       Triple       `yaml:"clear"`
	Frames      int          `yaml:"frames"`
	Output      string       `yaml:"output"`
	Concurrency int          `yaml:"concurrency"`
	Camera      CameraConfig `yaml:"camera"`
	Meshes      []MeshConfig `yaml:"meshes"`
}

var defaultScene = SceneConfig{
	Name:   "default",
	Width:  640,
	Height: 360,
	Clear:  Triple{.0625, .0625, .0625},
	Frames: 1,
	Output: "frame-%03d.png",
	Camera: CameraConfig{FOV: 90, Near: .1, Far: 1000, Eye: Triple{0, 1, 4}, Target: Triple{0, 0, 0}, Up: Triple{0, 1, 0}},
	Meshes: []MeshConfig{
		{Builtin: "cube", Rotation: Triple{20, 30, 0}, Spin: Triple{0, 6, 0}, Tint: Triple{.8, .6, .3}, Cull: "back"},
		{Builtin: "triangle", Position: Triple{0, 0, 1.5}, Scale: Triple{.75, .75, .75}},
	},
}

// LoadYAML decodes a scene and fills defaults for anything left out.
func LoadYAML(reader io.Reader) (*SceneConfig, error) {
	var config SceneConfig

	if err := yaml.NewDecoder(reader).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (config *SceneConfig) applyDefaults() {
	if config.Name == "" {
		config.Name = defaultScene.Name
	}

	if config.Width == 0 {
		config.Width = defaultScene.Width
	}

	if config.Height == 0 {
		config.Height = defaultScene.Height
	}

	if config.Frames == 0 {
		config.Frames = 1
	}

	if config.Output == "" {
		config.Output = defaultScene.Output
	}

	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	if config.Camera.FOV == 0 {
		config.Camera.FOV = defaultScene.Camera.FOV
	}

	if config.Camera.Near == 0 {
		config.Camera.Near = defaultScene.Camera.Near
	}

	if config.Camera.Far == 0 {
		config.Camera.Far = defaultScene.Camera.Far
	}
}

func (config *SceneConfig) validate() error {
	if config.Width < 0 || config.Height < 0 {
		return fmt.Errorf("scene %q: size %dx%d", config.Name, config.Width, config.Height)
	}

	if config.Camera.Near >= config.Camera.Far {
		return fmt.Errorf("scene %q: near %v must be below far %v", config.Name, config.Camera.Near, config.Camera.Far)
	}

	for index, mesh := range config.Meshes {
		if (mesh.Builtin == "") == (mesh.OBJ == "") {
			return fmt.Errorf("scene %q: mesh %d needs exactly one of builtin or obj", config.Name, index)
		}

		if _, err := parseCull(mesh.Cull); err != nil {
			return fmt.Errorf("scene %q: mesh %d: %w", config.Name, index, err)
		}

		if _, err := parseFilter(mesh.Filter); err != nil {
			return fmt.Errorf("scene %q: mesh %d: %w", config.Name, index, err)
		}
	}

	return nil
}

func parseCull(value string) (ghetty.CullMode, error) {
	switch value {
	case "", "none":
		return ghetty.CullNone, nil
	case "back":
		return ghetty.CullBack, nil
	case "front":
		return ghetty.CullFront, nil
	}

	return ghetty.CullNone, fmt.Errorf("unknown cull mode %q", value)
}

func parseFilter(value string) (ghetty.Filter, error) {
	switch value {
	case "", "nearest":
		return ghetty.Nearest, nil
	case "bilinear":
		return ghetty.Bilinear, nil
	}

	return ghetty.Nearest, fmt.Errorf("unknown texture filter %q", value)
}

// Mesh is a loaded MeshConfig. Models and textures are shared read-only
// between frames.
type Mesh struct {
	Model   *ghetty.Model
	Texture *ghetty.Texture
	Filter  ghetty.Filter
	Cull    ghetty.CullMode

	Position, Rotation, Spin, Scale, Tint ghetty.Vector
}

// Scene is a SceneConfig with every asset loaded.
type Scene struct {
	Config *SceneConfig
	Meshes []Mesh
}

func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	file, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}

	defer file.Close()

	return load(file)
}

func builtin(name string) (*ghetty.Model, error) {
	switch name {
	case "triangle":
		return ghetty.Triangle(), nil
	case "quad":
		return ghetty.Quad(), nil
	case "cube":
		return ghetty.Cube(), nil
	}

	return nil, fmt.Errorf("unknown builtin mesh %q", name)
}

// Load resolves asset paths relative to dir.
func (config *SceneConfig) Load(dir string) (*Scene, error) {
	var scene Scene = Scene{Config: config}

	for index, meshConfig := range config.Meshes {
		var mesh Mesh = Mesh{
			Position: meshConfig.Position.vector(1, ghetty.Point(0, 0, 0)),
			Rotation: meshConfig.Rotation.vector(0, ghetty.Zero()),
			Spin:     meshConfig.Spin.vector(0, ghetty.Zero()),
			Scale:    meshConfig.Scale.vector(1, ghetty.Point(1, 1, 1)),
			Tint:     meshConfig.Tint.vector(1, ghetty.Color(1, 1, 1)),
		}

		var err error

		if meshConfig.Builtin != "" {
			mesh.Model, err = builtin(meshConfig.Builtin)
		} else {
			mesh.Model, err = loadFile(filepath.Join(dir, meshConfig.OBJ), ghetty.LoadModel)
		}

		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", index, err)
		}

		if meshConfig.Texture != "" {
			if mesh.Texture, err = loadFile(filepath.Join(dir, meshConfig.Texture), ghetty.LoadTexture); err != nil {
				return nil, fmt.Errorf("mesh %d: %w", index, err)
			}
		}

		mesh.Filter, _ = parseFilter(meshConfig.Filter)
		mesh.Cull, _ = parseCull(meshConfig.Cull)

		scene.Meshes = append(scene.Meshes, mesh)
	}

	return &scene, nil
}

// camera returns the view and projection matrices for a frame.
func (scene *Scene) camera(frame int) (view, projection ghetty.Matrix) {
	var camera CameraConfig = scene.Config.Camera
	var eye ghetty.Vector = camera.Eye.vector(1, ghetty.Point(0, 0, 3))
	var target ghetty.Vector = camera.Target.vector(1, ghetty.Point(0, 0, 0))
	var up ghetty.Vector = camera.Up.vector(0, ghetty.Direction(0, 1, 0))

	if camera.Orbit != 0 {
		var orbit ghetty.Matrix = ghetty.Translation(target[ghetty.X], target[ghetty.Y], target[ghetty.Z]).
			Mul(ghetty.RotationY(camera.Orbit * float32(frame) * math32.Pi / 180)).
			Mul(ghetty.Translation(-target[ghetty.X], -target[ghetty.Y], -target[ghetty.Z]))

		eye = orbit.Apply(eye)
	}

	var aspect float32 = float32(scene.Config.Width) / float32(scene.Config.Height)

	return ghetty.LookAt(eye, target, up), ghetty.Perspective(camera.FOV*math32.Pi/180, aspect, camera.Near, camera.Far)
}

// model returns the model matrix of mesh for a frame.
func (mesh *Mesh) model(frame int) ghetty.Matrix {
	return ghetty.Transformation(mesh.Position, mesh.Rotation.Add(mesh.Spin.Scale(float32(frame))), mesh.Scale)
}

// Draw renders one frame of the scene into renderer.
func (scene *Scene) Draw(renderer *ghetty.Renderer[ghetty.Vertex], frame int) {
	var clear ghetty.Vector = scene.Config.Clear.vector(1, ghetty.Zero())
	var view, projection ghetty.Matrix = scene.camera(frame)
	var viewProjection ghetty.Matrix = projection.Mul(view)

	renderer.SetClearColor(clear[ghetty.X], clear[ghetty.Y], clear[ghetty.Z])
	renderer.Clear()

	for index := range scene.Meshes {
		var mesh *Mesh = &scene.Meshes[index]
		var tint ghetty.Vector = mesh.Tint

		renderer.SetVertexShader(ghetty.MVP(viewProjection.Mul(mesh.model(frame))))
		renderer.SetCullMode(mesh.Cull)

		if mesh.Texture != nil {
			var textured ghetty.FragmentShader[ghetty.Vertex] = ghetty.Textured(mesh.Texture, mesh.Filter)

			renderer.SetFragmentShader(ghetty.FragmentShaderFunc[ghetty.Vertex](func(vertex ghetty.Vertex) ghetty.Vector {
				return textured.Shade(vertex).Mul(tint)
			}))
		} else {
			renderer.SetFragmentShader(ghetty.FragmentShaderFunc[ghetty.Vertex](func(vertex ghetty.Vertex) ghetty.Vector {
				return vertex.Color.Mul(tint)
			}))
		}

		renderer.RenderIndexed(mesh.Model.Vertices, mesh.Model.Indices)
	}
}
