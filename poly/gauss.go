package poly

import (
	"fmt"
	"io"
	"math"
	"math/big"
)

// maxGaussianAttempts caps the rejection loop before degrading to a rounded
// Box-Muller draw.
const maxGaussianAttempts = 1000

// GaussianTailBound returns the 6σ cut-off outside which samples are never
// produced.
func GaussianTailBound(sigma float64) int64 {
	return int64(math.Ceil(6 * sigma))
}

// SampleGaussian draws one integer from the discrete Gaussian of parameter
// sigma centered at zero. Candidates are uniform in [-6σ,6σ] and accepted
// with probability exp(-z²/2σ²). After maxGaussianAttempts rejections the
// sample falls back to a rounded continuous Box-Muller draw clamped to the
// same tail bound.
func SampleGaussian(prng io.Reader, sigma float64) (int64, error) {
	if sigma <= 0 {
		return 0, fmt.Errorf("gaussian sigma must be positive, got %g", sigma)
	}
	bound := GaussianTailBound(sigma)
	twoSigmaSq := 2 * sigma * sigma

	for attempt := 0; attempt < maxGaussianAttempts; attempt++ {
		z, err := uniformInt64(prng, -bound, bound)
		if err != nil {
			return 0, err
		}
		rho := math.Exp(-float64(z*z) / twoSigmaSq)
		u, err := uniformFloat64(prng)
		if err != nil {
			return 0, err
		}
		if u < rho {
			return z, nil
		}
	}

	u1, err := uniformFloat64(prng)
	if err != nil {
		return 0, err
	}
	for u1 == 0 {
		if u1, err = uniformFloat64(prng); err != nil {
			return 0, err
		}
	}
	u2, err := uniformFloat64(prng)
	if err != nil {
		return 0, err
	}
	z := sigma * math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	r := int64(math.Round(z))
	if r > bound {
		r = bound
	} else if r < -bound {
		r = -bound
	}
	return r, nil
}

// SampleGaussianPoly fills a fresh ring element with discrete Gaussian
// coefficients embedded modulo q. Negative draws land at q-|z|.
func SampleGaussianPoly(prng io.Reader, n int, q *big.Int, sigma float64) (Polynomial, error) {
	p := New(n, q)
	for i := 0; i < n; i++ {
		z, err := SampleGaussian(prng, sigma)
		if err != nil {
			return Polynomial{}, err
		}
		p.Coeffs[i].SetInt64(z)
		p.Coeffs[i].Mod(p.Coeffs[i], q)
	}
	return p, nil
}
