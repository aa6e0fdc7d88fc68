// Package integrator implements the unidirectional path-tracing estimator:
// an iterative loop (not recursion) with explicit throughput/radiance
// accumulators and Russian-roulette termination.
package integrator

import (
	"math/rand"

	"github.com/kestrelrender/tracecore/pkg/sampler"
	"github.com/kestrelrender/tracecore/pkg/scene"
	"github.com/kestrelrender/tracecore/pkg/shading"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

const (
	tMin = 0.1
	tMax = 10000

	// rouletteMinBounces is the bounce count past which Russian roulette may
	// terminate the path.
	rouletteMinBounces = 10

	// selfIntersectionBias offsets continuation ray origins off the surface.
	selfIntersectionBias = 1e-4

	hemispherePDF = 1.0 / (2 * vecmath.Pi)
)

// Trace estimates the radiance arriving along ray by iterating bounces until
// a miss, an absorption, or a Russian-roulette kill.
func Trace(ray vecmath.Ray, s *scene.Scene, rng *rand.Rand) vecmath.Vector3 {
	radiance := vecmath.Vector3{}
	throughput := vecmath.NewVector3(1, 1, 1)

	depth := 0
	for {
		hit, ok := s.Intersect(ray, tMin, tMax)
		if !ok {
			return radiance
		}

		n := hit.Normal
		if n.Dot(ray.Direction) > 0 {
			n = n.Negate()
		}

		mat := hit.Material
		pContinue := mat.Albedo.MaxComponent()

		if depth > rouletteMinBounces {
			if rng.Float32() > pContinue || pContinue <= 0 {
				radiance = radiance.Add(throughput.MulVec(mat.Emission))
				return radiance
			}
			throughput = throughput.Div(pContinue)
		}

		v := ray.Direction.Negate()

		newDir := sampler.RandomUniformHemisphereDirection(rng)
		cosTheta := newDir.Dot(n)
		if cosTheta < 0 {
			newDir = newDir.Negate()
			cosTheta = -cosTheta
		}

		newRay := vecmath.NewRay(hit.Point.Add(newDir.Mul(selfIntersectionBias)), newDir)

		h := newDir.Add(v).Mul(0.5).Normalize()
		brdf := shading.Evaluate(mat, newDir, h, n, v)

		radiance = radiance.Add(throughput.MulVec(mat.Emission))
		throughput = throughput.MulVec(brdf).Mul(cosTheta / hemispherePDF)

		ray = newRay
		depth++
	}
}
