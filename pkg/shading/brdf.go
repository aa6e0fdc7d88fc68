// Package shading evaluates the metallic-roughness microfacet BRDF: a GGX
// (Trowbridge-Reitz) normal distribution, Smith joint-masking visibility term,
// Schlick Fresnel, and Burley diffuse.
package shading

import (
	"math"

	"github.com/kestrelrender/tracecore/pkg/scene"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// minRoughness is the floor applied before squaring into alpha, avoiding a
// singular NDF at roughness == 0.
const minRoughness = 0.005

// Evaluate returns the BRDF value (reflectance per steradian) for material
// mat given unit vectors L (to light), H (half vector), N (shading normal)
// and V (to viewer). The caller supplies the cosine factor and PDF
// separately; this function returns reflectance only.
func Evaluate(mat scene.Material, l, h, n, v vecmath.Vector3) vecmath.Vector3 {
	specColor := vecmath.Lerp(vecmath.NewVector3(0.04, 0.04, 0.04), mat.Albedo, mat.Metallic)
	diffuseAlbedo := vecmath.Lerp(mat.Albedo, vecmath.Vector3{}, mat.Metallic)

	roughness := mat.Roughness
	if roughness < minRoughness {
		roughness = minRoughness
	}
	alpha := roughness * roughness

	nDotV := vecmath.Saturate(absF(n.Dot(v)) + 1e-5)
	nDotL := vecmath.Saturate(n.Dot(l))
	nDotH := vecmath.Saturate(n.Dot(h))
	lDotH := vecmath.Saturate(l.Dot(h))

	diffuse := burleyDiffuse(diffuseAlbedo, roughness, nDotV, nDotL, lDotH)

	d := ggxD(alpha, nDotH)
	v2 := smithV(alpha, nDotV, nDotL)
	f := schlickFresnel(specColor, lDotH)

	return diffuse.Add(f.Mul(d * v2))
}

// burleyDiffuse evaluates the Burley diffuse term, reproducing the source's
// energy-bias formula exactly rather than the classical Burley derivation.
func burleyDiffuse(diffuseAlbedo vecmath.Vector3, roughness, nDotV, nDotL, lDotH float32) vecmath.Vector3 {
	fd90 := 2*roughness*lDotH*lDotH + vecmath.LerpF(0, 0.5, roughness)
	fresnelV := 1 + (fd90-1)*pow5(1-nDotV)
	fresnelL := 1 + (fd90-1)*pow5(1-nDotL)
	energyFactor := vecmath.LerpF(1, 1/1.51, roughness)

	scalar := fresnelV * fresnelL * energyFactor * vecmath.InvPi
	return diffuseAlbedo.Mul(scalar)
}

// ggxD evaluates the GGX/Trowbridge-Reitz normal distribution function.
func ggxD(alpha, nDotH float32) float32 {
	d := alpha / maxF(vecmath.Eps, (alpha*alpha-1)*nDotH*nDotH+1)
	return d * d * vecmath.InvPi
}

// smithV evaluates the Smith joint-masking visibility term (height-correlated
// approximation), already divided by the 4*NdotV*NdotL normalization.
func smithV(alpha, nDotV, nDotL float32) float32 {
	return 0.5 / maxF(vecmath.Eps, nDotL*(nDotV*(1-alpha)+alpha)+nDotV*(nDotL*(1-alpha)+alpha))
}

// schlickFresnel evaluates the Schlick approximation to the Fresnel term.
func schlickFresnel(specColor vecmath.Vector3, lDotH float32) vecmath.Vector3 {
	grazing := vecmath.Saturate(50 * specColor.Y())
	return specColor.Add(vecmath.NewVector3(grazing, grazing, grazing).Sub(specColor).Mul(pow5(1 - lDotH)))
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

func absF(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func maxF(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}
