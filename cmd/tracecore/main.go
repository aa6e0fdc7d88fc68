// Command tracecore renders a procedural or PLY-backed scene with the
// progressive path tracer and writes the result as a PPM image.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/kestrelrender/tracecore/pkg/loader"
	"github.com/kestrelrender/tracecore/pkg/render"
	"github.com/kestrelrender/tracecore/pkg/scene"
	"github.com/kestrelrender/tracecore/pkg/tlog"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

var logger = tlog.New("tracecore")

func setupLogging(ctx *cli.Context) {
	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	tlog.SetLevel(tlog.LevelFromVerbosity(verbosity))
}

func main() {
	app := buildApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{Name: "version", Usage: "print the version"}

	app := cli.NewApp()
	app.Name = "tracecore"
	app.Usage = "render scenes with the progressive path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v", Usage: "enable verbose logging"},
		cli.BoolFlag{Name: "vv", Usage: "enable even more verbose logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "scene", Value: "cornell", Usage: "cornell, tiles, or emission"},
				cli.StringFlag{Name: "ply", Usage: "path to an ASCII PLY mesh, overrides -scene"},
				cli.IntFlag{Name: "width", Value: 400, Usage: "frame width"},
				cli.IntFlag{Name: "height", Value: 400, Usage: "frame height"},
				cli.IntFlag{Name: "spp", Value: 4, Usage: "samples per axis (total samples = spp^2)"},
				cli.IntFlag{Name: "workers", Value: 0, Usage: "worker count, 0 = workpool default"},
				cli.IntFlag{Name: "queue", Value: 0, Usage: "job queue capacity, 0 = workpool default"},
				cli.StringFlag{Name: "out, o", Value: "render.ppm", Usage: "output PPM path"},
			},
			Action: renderFrame,
		},
	}
	return app
}

func renderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	width := ctx.Int("width")
	height := ctx.Int("height")
	spp := ctx.Int("spp")
	workers := ctx.Int("workers")
	queue := ctx.Int("queue")

	s, err := selectScene(ctx)
	if err != nil {
		return errors.Wrap(err, "tracecore: building scene")
	}

	controller := render.NewController(s, workers, queue)
	defer controller.Stop()

	start := time.Now()
	controller.StartRender(width, height, spp)
	for !controller.IsComplete() {
		time.Sleep(20 * time.Millisecond)
	}
	elapsed := time.Since(start)

	out, err := os.Create(ctx.String("out"))
	if err != nil {
		return errors.Wrap(err, "tracecore: creating output file")
	}
	defer out.Close()

	if err := writePPM(out, controller.Buffer(), width, height); err != nil {
		return errors.Wrap(err, "tracecore: writing PPM")
	}

	displayRenderStats(width, height, spp, elapsed, ctx.String("out"))
	return nil
}

func selectScene(ctx *cli.Context) (*scene.Scene, error) {
	if path := ctx.String("ply"); path != "" {
		return sceneFromPLY(path)
	}

	switch ctx.String("scene") {
	case "tiles":
		return loader.NewTiledCubes(4)
	case "emission":
		return loader.NewEmissionTriangle()
	case "cornell":
		return loader.NewCornellBox()
	default:
		return nil, errors.Errorf("tracecore: unknown scene %q", ctx.String("scene"))
	}
}

func sceneFromPLY(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "tracecore: opening PLY file")
	}
	defer f.Close()

	tris, err := loader.LoadPLYTriangles(f, 0)
	if err != nil {
		return nil, err
	}

	materials := []scene.Material{{Albedo: vecmath.NewVector3(0.7, 0.7, 0.7), Roughness: 0.6}}
	nodes := []scene.Node{scene.NewNode("mesh", tris, 0)}

	cam, err := scene.NewCamera(
		vecmath.NewVector3(0, 1, 4),
		vecmath.NewVector3(0, 0, 0),
		vecmath.NewVector3(0, 1, 0),
		50*float32(math.Pi)/180,
		1.0,
	)
	if err != nil {
		return nil, err
	}

	return scene.New(nodes, materials, cam)
}

// gamma is the naive display gamma applied to linear radiance before
// quantizing to 8 bits; no tone mapping is performed.
const gamma = 2.2

// writePPM writes pixels as an ASCII (P3) PPM image, per the demo output
// format: no tone mapping, just a x^(1/gamma) correction and a [0,1] clamp.
func writePPM(f *os.File, pixels []vecmath.Vector3, width, height int) error {
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P3\n%d %d\n255\n", width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := pixels[y*width+x].Clamp(0, 1)
			fmt.Fprintf(w, "%d %d %d\n", toneMap(px.X()), toneMap(px.Y()), toneMap(px.Z()))
		}
	}
	return w.Flush()
}

func toneMap(c float32) uint8 {
	corrected := float32(math.Pow(float64(c), 1.0/gamma))
	return uint8(255 * corrected)
}

func displayRenderStats(width, height, spp int, elapsed time.Duration, out string) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Width", "Height", "Samples/pixel", "Render time", "Output"})
	table.Append([]string{
		fmt.Sprintf("%d", width),
		fmt.Sprintf("%d", height),
		fmt.Sprintf("%d", spp*spp),
		elapsed.Round(time.Millisecond).String(),
		out,
	})
	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
