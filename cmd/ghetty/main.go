// Command ghetty renders a YAML scene description to PNG frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"samuelscerri/ghetty"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	var level zap.AtomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

	if verbose {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	config := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	return config.Build()
}

func main() {
	var (
		scenePath = flag.String("scene", "", "scene YAML file (built-in demo when empty)")
		output    = flag.String("output", "", "output file pattern, overrides the scene")
		frames    = flag.Int("frames", 0, "frame count, overrides the scene")
		bench     = flag.String("bench", "", "append frame timings under this directory")
		verbose   = flag.Bool("v", false, "debug logging, including renderer statistics")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ghetty:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *verbose {
		ghetty.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(context.Background(), logger, *scenePath, *output, *frames, *bench); err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}
}

func loadScene(path string) (*Scene, error) {
	if path == "" {
		var config SceneConfig = defaultScene
		return config.Load(".")
	}

	config, err := loadFile(path, LoadYAML)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}

	return config.Load(filepath.Dir(path))
}

func run(ctx context.Context, logger *zap.Logger, scenePath, output string, frames int, bench string) error {
	scene, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	if output != "" {
		scene.Config.Output = output
	}

	if frames > 0 {
		scene.Config.Frames = frames
	}

	var benchLogger *BenchLogger

	if bench != "" {
		if benchLogger, err = NewBenchLogger(bench, scene.Config.Name); err != nil {
			return err
		}

		defer benchLogger.Close()
	}

	logger.Info("rendering",
		zap.String("scene", scene.Config.Name),
		zap.Int("width", scene.Config.Width),
		zap.Int("height", scene.Config.Height),
		zap.Int("frames", scene.Config.Frames),
		zap.Int("meshes", len(scene.Meshes)),
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(scene.Config.Concurrency)

	for frame := 0; frame < scene.Config.Frames; frame++ {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return renderFrame(logger, scene, frame, benchLogger)
		})
	}

	return group.Wait()
}

// renderFrame uses its own renderer so frames can run on separate goroutines.
func renderFrame(logger *zap.Logger, scene *Scene, frame int, benchLogger *BenchLogger) error {
	var renderer *ghetty.Renderer[ghetty.Vertex] = ghetty.NewRenderer[ghetty.Vertex](scene.Config.Width, scene.Config.Height)

	var start time.Time = time.Now()
	scene.Draw(renderer, frame)
	var elapsed time.Duration = time.Since(start)

	var img image.Image
	var digest uint64

	renderer.WithColorBuffer(func(buffer []byte) {
		digest = Digest(buffer)
		img = toImage(renderer.Width(), renderer.Height(), buffer)
	})

	var path string = outputPath(scene.Config.Output, frame)

	if err := writePNG(path, img); err != nil {
		return err
	}

	var stats ghetty.Stats = renderer.Stats()

	logger.Info("frame written",
		zap.Int("frame", frame),
		zap.String("path", path),
		zap.Duration("elapsed", elapsed),
		zap.String("digest", fmt.Sprintf("%016x", digest)),
		zap.Int("triangles", stats.Triangles),
		zap.Int("fragments", stats.Fragments),
	)

	if benchLogger != nil {
		return benchLogger.Log(frame, elapsed)
	}

	return nil
}

// outputPath expands a Printf style pattern with the frame number. Patterns
// without a verb get the number inserted before the extension.
func outputPath(pattern string, frame int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, frame)
	}

	var extension string = filepath.Ext(pattern)

	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(pattern, extension), frame, extension)
}
