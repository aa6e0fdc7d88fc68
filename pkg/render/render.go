// Package render drives progressive rendering of a scene: it owns the
// accumulation buffer, submits one job per row to a worker pool, and exposes
// progress/cancellation to a caller (CLI or otherwise).
package render

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelrender/tracecore/pkg/integrator"
	"github.com/kestrelrender/tracecore/pkg/sampler"
	"github.com/kestrelrender/tracecore/pkg/scene"
	"github.com/kestrelrender/tracecore/pkg/tlog"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
	"github.com/kestrelrender/tracecore/pkg/workpool"
)

// submitBackoff is how long a producer sleeps before retrying a Submit that
// found the bounded queue full.
const submitBackoff = time.Millisecond

var log = tlog.New("render")

// Controller owns one render pass's accumulation buffer and progress state.
// A Controller is reused across passes; StartRender resets it and begins a
// new generation.
type Controller struct {
	scene *scene.Scene
	pool  *workpool.Pool

	mu             sync.Mutex
	width, height  int
	samplesPerAxis int
	buffer         []vecmath.Vector3
	generation     uint64

	completedPixels int64
}

// NewController wraps a scene with a worker pool of the given size (0 picks
// workpool's defaults).
func NewController(s *scene.Scene, numWorkers, queueCapacity int) *Controller {
	return &Controller{
		scene: s,
		pool:  workpool.New(numWorkers, queueCapacity),
	}
}

// StartRender resets the accumulation buffer, advances the generation, and
// submits one row job per scanline from the calling goroutine; no separate
// producer goroutine is started. When the queue is full it sleeps
// submitBackoff and retries, so it returns only once every row has been
// queued. Progress is observed via Progress/IsComplete/Buffer.
func (c *Controller) StartRender(width, height, samplesPerAxis int) {
	c.mu.Lock()
	c.width = width
	c.height = height
	c.samplesPerAxis = samplesPerAxis
	c.buffer = make([]vecmath.Vector3, width*height)
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	atomic.StoreInt64(&c.completedPixels, 0)
	c.pool.SetGeneration(generation)

	log.Noticef("starting render: %dx%d, %d^2 samples, generation %d", width, height, samplesPerAxis, generation)

	for y := 0; y < height; y++ {
		row := y
		for !c.pool.Submit(func(arg int) { c.renderRow(arg, generation) }, row) {
			time.Sleep(submitBackoff)
		}
	}
}

func (c *Controller) renderRow(y int, generation uint64) {
	c.mu.Lock()
	width, height, samplesPerAxis := c.width, c.height, c.samplesPerAxis
	cam := c.scene.Camera
	c.mu.Unlock()

	sampleCount := samplesPerAxis * samplesPerAxis
	rng := sampler.New(y, int(generation))

	row := make([]vecmath.Vector3, width)
	for x := 0; x < width; x++ {
		sum := vecmath.Vector3{}
		for i := 0; i < sampleCount; i++ {
			du, dv := sampler.StratifiedPixelOffset(rng, i, samplesPerAxis)
			u := (float32(x) + du) / float32(width)
			v := (float32(y) + dv) / float32(height)
			// Screen-space v grows downward in pixel coordinates but the
			// camera's t=0 is the bottom of the image plane.
			ray := cam.RayThrough(u, 1-v)
			sum = sum.Add(integrator.Trace(ray, c.scene, rng))
		}
		row[x] = sum.Div(float32(sampleCount))
	}

	c.mu.Lock()
	current := c.generation == generation
	if current {
		copy(c.buffer[y*width:(y+1)*width], row)
	}
	c.mu.Unlock()

	if current {
		atomic.AddInt64(&c.completedPixels, int64(width))
	}
}

// Cancel advances the generation without starting a new pass, causing
// in-flight and queued row jobs to discard their results on completion.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()
	c.pool.SetGeneration(generation)
	log.Notice("render cancelled")
}

// Progress reports completed pixels against the total for the current pass.
func (c *Controller) Progress() (done, total int) {
	c.mu.Lock()
	total = c.width * c.height
	c.mu.Unlock()
	return int(atomic.LoadInt64(&c.completedPixels)), total
}

// IsComplete reports whether every pixel of the current pass has been
// written.
func (c *Controller) IsComplete() bool {
	done, total := c.Progress()
	return total > 0 && done >= total
}

// Buffer returns a copy of the current accumulation buffer, safe to read
// while a render is in flight.
func (c *Controller) Buffer() []vecmath.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]vecmath.Vector3, len(c.buffer))
	copy(out, c.buffer)
	return out
}

// Stop tears down the underlying worker pool. The Controller must not be
// used afterward.
func (c *Controller) Stop() {
	c.pool.Stop()
}
