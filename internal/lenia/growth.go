package lenia

import "math"

// Growth is the Gaussian bump exp(-((x-mu)/sigma)^2 / 2). It peaks at 1 for
// x == mu and is symmetric about mu. sigma must be positive.
func Growth(x, mu, sigma float32) float32 {
	d := (x - mu) / sigma
	return float32(math.Exp(float64(-0.5 * d * d)))
}

// growthDelta maps a potential to the signed contribution 2*Growth-1 in (-1, 1].
func growthDelta(x, mu, sigma float32) float32 {
	return 2*Growth(x, mu, sigma) - 1
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
