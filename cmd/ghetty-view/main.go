// Command ghetty-view shows the renderer output in a window. WASD moves the
// camera, the arrow keys orbit it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"samuelscerri/ghetty"
)

const FOV = 90
const Near, Far = .1, 1000

// Game presents one renderer frame per ebiten Draw.
type Game struct {
	Renderer *ghetty.Renderer[ghetty.Vertex]
	Model    *ghetty.Model
	Texture  *ghetty.Texture

	Position ghetty.Vector
	Yaw      float32
	Spin     float32

	pixels []byte
}

func (game *Game) Update() error {
	const step, turn = .0625, 2

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		game.Position[ghetty.Z] -= step
	}

	if ebiten.IsKeyPressed(ebiten.KeyS) {
		game.Position[ghetty.Z] += step
	}

	if ebiten.IsKeyPressed(ebiten.KeyA) {
		game.Position[ghetty.X] -= step
	}

	if ebiten.IsKeyPressed(ebiten.KeyD) {
		game.Position[ghetty.X] += step
	}

	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		game.Position[ghetty.Y] += step
	}

	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		game.Position[ghetty.Y] -= step
	}

	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		game.Yaw -= turn
	}

	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		game.Yaw += turn
	}

	game.Spin += 1

	return nil
}

func (game *Game) Draw(screen *ebiten.Image) {
	var width, height int = game.Renderer.Width(), game.Renderer.Height()

	var rotation ghetty.Matrix = ghetty.RotationY(game.Yaw * math32.Pi / 180)
	var eye ghetty.Vector = rotation.Apply(game.Position)
	var view ghetty.Matrix = ghetty.LookAt(eye, ghetty.Point(0, 0, 0), ghetty.Direction(0, 1, 0))
	var projection ghetty.Matrix = ghetty.Perspective(FOV*math32.Pi/180, float32(width)/float32(height), Near, Far)
	var model ghetty.Matrix = ghetty.Transformation(ghetty.Point(0, 0, 0), ghetty.Vector{20, game.Spin, 0, 0}, ghetty.Point(1, 1, 1))

	game.Renderer.SetVertexShader(ghetty.MVP(projection.Mul(view).Mul(model)))

	game.Renderer.Clear()
	game.Renderer.RenderIndexed(game.Model.Vertices, game.Model.Indices)

	game.Renderer.WithColorBuffer(func(frame []byte) {
		for pixel := 0; pixel < width*height; pixel++ {
			copy(game.pixels[pixel*4:pixel*4+3], frame[pixel*ghetty.BytesPerPixel:pixel*ghetty.BytesPerPixel+3])
			game.pixels[pixel*4+3] = 255
		}
	})

	screen.WritePixels(game.pixels)

	var stats ghetty.Stats = game.Renderer.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS %.0f  triangles %d  fragments %d", ebiten.ActualFPS(), stats.Rasterized, stats.Fragments))
}

func (game *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return game.Renderer.Width(), game.Renderer.Height()
}

func main() {
	var (
		width   = flag.Int("width", 640, "render width")
		height  = flag.Int("height", 360, "render height")
		obj     = flag.String("obj", "", "OBJ model (cube when empty)")
		texture = flag.String("texture", "", "texture image")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var game Game = Game{
		Renderer: ghetty.NewRenderer[ghetty.Vertex](*width, *height),
		Model:    ghetty.Cube(),
		Position: ghetty.Point(0, 1, 4),
		pixels:   make([]byte, (*width)*(*height)*4),
	}

	if *obj != "" {
		file, err := os.Open(*obj)
		if err != nil {
			logger.Fatal("open model", zap.Error(err))
		}

		game.Model, err = ghetty.LoadModel(file)
		file.Close()

		if err != nil {
			logger.Fatal("load model", zap.String("path", *obj), zap.Error(err))
		}
	}

	game.Renderer.SetClearColor(.0625, .0625, .0625)
	game.Renderer.SetCullMode(ghetty.CullBack)
	game.Renderer.SetFragmentShader(ghetty.VertexColor)

	if *texture != "" {
		file, err := os.Open(*texture)
		if err != nil {
			logger.Fatal("open texture", zap.Error(err))
		}

		game.Texture, err = ghetty.LoadTexture(file)
		file.Close()

		if err != nil {
			logger.Fatal("load texture", zap.String("path", *texture), zap.Error(err))
		}

		game.Renderer.SetFragmentShader(ghetty.Textured(game.Texture, ghetty.Bilinear))
	}

	ebiten.SetWindowSize(*width*2, *height*2)
	ebiten.SetWindowTitle("Ghetty Engine - V3")
	ebiten.SetScreenClearedEveryFrame(false)

	logger.Info("viewer started", zap.Int("width", *width), zap.Int("height", *height), zap.Int("triangles", game.Model.Triangles()))

	if err := ebiten.RunGame(&game); err != nil {
		logger.Fatal("run viewer", zap.Error(err))
	}
}
