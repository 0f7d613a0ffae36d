// Package geometry holds the sphere math backing the mechanics engine: the
// volume/diameter relation used for growth and the sampling helpers used to
// orient a division plane.
package geometry

import (
	"math"
	"math/rand"

	"celldivision-sim/internal/common"
)

// VolumeFromDiameter returns the volume of a sphere with the given diameter.
func VolumeFromDiameter(d float64) float64 {
	return math.Pi / 6.0 * d * d * d
}

// DiameterFromVolume returns the diameter of a sphere with the given volume.
// Non-positive volumes map to diameter 0; callers guard against shrinking a
// cell out of existence.
func DiameterFromVolume(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Cbrt(6.0 * v / math.Pi)
}

// RandomUnitVector draws a uniformly distributed direction in 3D space, used
// to orient the axis along which a dividing cell splits.
func RandomUnitVector(rng *rand.Rand) common.Vector {
	for {
		v := common.Vector{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		norm := v.Norm()
		if norm > 1e-9 {
			return v.Scale(1.0 / norm)
		}
		// Degenerate draw, resample.
	}
}
