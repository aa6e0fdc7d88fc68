// Package sampler provides the per-row-job random number source and the
// direction/pixel sampling routines the integrator and render controller draw
// from: uniform hemisphere directions and stratified pixel jitter.
package sampler

import (
	"math"
	"math/rand"

	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// New constructs an independent PRNG seeded deterministically from
// (workerID, generation), so a given pair always reproduces the same stream.
// The render controller creates one per row job and passes the row index as
// workerID; no RNG is kept per worker goroutine.
func New(workerID, generation int) *rand.Rand {
	seed := int64(workerID)<<32 ^ int64(generation)
	return rand.New(rand.NewSource(seed))
}

// RandomUniformHemisphereDirection samples a direction uniformly distributed
// over the full sphere (cosTheta = 2u-1, phi = 2*Pi*v). The caller is
// responsible for flipping the result into the hemisphere of its surface
// normal by a sign check on dot(dir, N). The sampling PDF over that
// hemisphere is 1/(2*Pi).
func RandomUniformHemisphereDirection(rng *rand.Rand) vecmath.Vector3 {
	u := rng.Float64()
	v := rng.Float64()

	cosTheta := float32(2*u - 1)
	phi := float32(2 * math.Pi * v)
	sinTheta := float32(math.Sqrt(math.Max(0, float64(1-cosTheta*cosTheta))))

	return vecmath.NewVector3(
		sinTheta*float32(math.Cos(float64(phi))),
		sinTheta*float32(math.Sin(float64(phi))),
		cosTheta,
	)
}

// StratifiedPixelOffset places sample index into cell (index mod sideCount,
// index / sideCount) of a sideCount x sideCount grid covering the pixel, and
// jitters within that cell. Returns (u, v) in [0, 1)^2.
func StratifiedPixelOffset(rng *rand.Rand, index, sideCount int) (u, v float32) {
	cellX := index % sideCount
	cellY := index / sideCount

	jx := rng.Float32()
	jy := rng.Float32()

	u = (float32(cellX) + jx) / float32(sideCount)
	v = (float32(cellY) + jy) / float32(sideCount)
	return u, v
}
