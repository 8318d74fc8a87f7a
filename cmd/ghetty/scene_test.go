package main

import (
	"bufio"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"samuelscerri/ghetty"
)

func TestLoadYAMLDefaults(t *testing.T) {
	config, err := LoadYAML(strings.NewReader("meshes:\n  - builtin: cube\n"))
	require.NoError(t, err)

	assert.Equal(t, "default", config.Name)
	assert.Equal(t, 640, config.Width)
	assert.Equal(t, 360, config.Height)
	assert.Equal(t, 1, config.Frames)
	assert.Equal(t, 1, config.Concurrency)
	assert.Equal(t, "frame-%03d.png", config.Output)
	assert.Equal(t, float32(90), config.Camera.FOV)
	assert.Equal(t, float32(.1), config.Camera.Near)
	assert.Equal(t, float32(1000), config.Camera.Far)
	require.Len(t, config.Meshes, 1)
	assert.Equal(t, "cube", config.Meshes[0].Builtin)
}

func TestLoadYAML(t *testing.T) {
	const document = `
name: spin
width: 64
height: 48
clear: [0.1, 0.2, 0.3]
frames: 12
concurrency: 4
camera:
  fov: 60
  near: 0.5
  far: 50
  eye: [0, 2, 5]
  orbit: 30
meshes:
  - builtin: quad
    cull: back
    tint: [1, 0, 0]
  - obj: models/teapot.obj
    texture: textures/teapot.png
    filter: bilinear
    spin: [0, 15, 0]
`

	config, err := LoadYAML(strings.NewReader(document))
	require.NoError(t, err)

	assert.Equal(t, "spin", config.Name)
	assert.Equal(t, 64, config.Width)
	assert.Equal(t, 12, config.Frames)
	assert.Equal(t, 4, config.Concurrency)
	assert.Equal(t, Triple{.1, .2, .3}, config.Clear)
	assert.Equal(t, float32(30), config.Camera.Orbit)
	assert.Equal(t, Triple{0, 2, 5}, config.Camera.Eye)
	require.Len(t, config.Meshes, 2)
	assert.Equal(t, "back", config.Meshes[0].Cull)
	assert.Equal(t, "textures/teapot.png", config.Meshes[1].Texture)
	assert.Equal(t, Triple{0, 15, 0}, config.Meshes[1].Spin)
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		err      string
	}{
		{"empty", "", "decode scene: EOF"},
		{"malformed", "width: [", "decode scene"},
		{"negative size", "width: -4\n", `scene "default": size -4x360`},
		{"near past far", "camera: {near: 10, far: 5}\n", "near 10 must be below far 5"},
		{"no source", "meshes:\n  - cull: back\n", "mesh 0 needs exactly one of builtin or obj"},
		{"two sources", "meshes:\n  - builtin: cube\n    obj: cube.obj\n", "mesh 0 needs exactly one of builtin or obj"},
		{"bad cull", "meshes:\n  - builtin: cube\n    cull: sideways\n", `mesh 0: unknown cull mode "sideways"`},
		{"bad filter", "meshes:\n  - builtin: cube\n  - builtin: quad\n    filter: cubic\n", `mesh 1: unknown texture filter "cubic"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadYAML(strings.NewReader(tt.document))

			require.ErrorContains(t, err, tt.err)
			require.Nil(t, config)
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		pattern string
		frame   int
		want    string
	}{
		{"frame-%03d.png", 7, "frame-007.png"},
		{"out/%d.png", 12, "out/12.png"},
		{"render.png", 3, "render-003.png"},
		{"out/render", 42, "out/render-042"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.pattern, tt.frame))
		})
	}
}

func TestDigest(t *testing.T) {
	assert.Equal(t, uint64(0xef46db3751d8e999), Digest(nil))
	assert.Equal(t, Digest([]byte{1, 2, 3}), Digest([]byte{1, 2, 3}))
	assert.NotEqual(t, Digest([]byte{1, 2, 3}), Digest([]byte{1, 2, 4}))
}

func TestToImage(t *testing.T) {
	var img *image.NRGBA = toImage(2, 1, []byte{10, 20, 30, 40, 50, 60})

	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{40, 50, 60, 255}, img.NRGBAAt(1, 0))
}

func TestCameraOrbit(t *testing.T) {
	var config SceneConfig = defaultScene
	config.Camera.Eye = Triple{0, 0, 4}
	config.Camera.Orbit = 90

	scene, err := config.Load(".")
	require.NoError(t, err)

	for frame, eye := range []ghetty.Vector{ghetty.Point(0, 0, 4), ghetty.Point(4, 0, 0), ghetty.Point(0, 0, -4)} {
		view, _ := scene.camera(frame)
		var origin ghetty.Vector = view.Apply(eye)

		for axis := ghetty.X; axis <= ghetty.Z; axis++ {
			assert.InDelta(t, 0, origin[axis], 1e-5, "frame %d axis %d", frame, axis)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	var config SceneConfig = defaultScene
	config.Width, config.Height = 32, 18
	config.Output = filepath.Join(t.TempDir(), "frame.png")

	scene, err := config.Load(".")
	require.NoError(t, err)

	require.NoError(t, renderFrame(zap.NewNop(), scene, 0, nil))

	file, err := os.Open(filepath.Join(filepath.Dir(config.Output), "frame-000.png"))
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 32, 18), img.Bounds())

	var background color.NRGBA = color.NRGBA{16, 16, 16, 255}
	assert.Equal(t, background, color.NRGBAModel.Convert(img.At(0, 0)))
	assert.NotEqual(t, background, color.NRGBAModel.Convert(img.At(16, 9)))
}

func writeAssets(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(
		"v -1 -1 0\nv 1 -1 0\nv 1 1 0\nv -1 1 0\nvt 0 0\nvt 1 0\nvt 1 1\nvt 0 1\nf 1/1 2/2 3/3 4/4\n",
	), 0o644))

	var texture *image.NRGBA = image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for index := range texture.Pix {
		texture.Pix[index] = 200
	}

	file, err := os.Create(filepath.Join(dir, "quad.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, texture))
	require.NoError(t, file.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.yaml"), []byte(`
name: assets
width: 16
height: 16
meshes:
  - obj: quad.obj
    texture: quad.png
    filter: bilinear
`), 0o644))
}

func TestLoadSceneAssets(t *testing.T) {
	var dir string = t.TempDir()
	writeAssets(t, dir)

	scene, err := loadScene(filepath.Join(dir, "scene.yaml"))
	require.NoError(t, err)

	require.Len(t, scene.Meshes, 1)
	require.NotNil(t, scene.Meshes[0].Texture)
	assert.Equal(t, ghetty.Bilinear, scene.Meshes[0].Filter)
	assert.Equal(t, 2, scene.Meshes[0].Model.Triangles())

	var renderer *ghetty.Renderer[ghetty.Vertex] = ghetty.NewRenderer[ghetty.Vertex](16, 16)
	scene.Draw(renderer, 0)

	assert.Positive(t, renderer.Stats().Fragments)

	_, err = loadScene(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "load scene")

	require.NoError(t, os.Remove(filepath.Join(dir, "quad.png")))
	_, err = loadScene(filepath.Join(dir, "scene.yaml"))
	require.ErrorContains(t, err, "mesh 0")
}

func TestRun(t *testing.T) {
	var dir string = t.TempDir()
	writeAssets(t, dir)

	var bench string = filepath.Join(dir, "bench")
	var pattern string = filepath.Join(dir, "out-%02d.png")

	require.NoError(t, run(context.Background(), zap.NewNop(), filepath.Join(dir, "scene.yaml"), pattern, 3, bench))

	for frame := 0; frame < 3; frame++ {
		assert.FileExists(t, outputPath(pattern, frame))
	}

	file, err := os.Open(filepath.Join(bench, cpuBrand(), "assets.txt"))
	require.NoError(t, err)
	defer file.Close()

	var lines int
	for scanner := bufio.NewScanner(file); scanner.Scan(); {
		lines++
	}

	assert.Equal(t, 3, lines)
}
