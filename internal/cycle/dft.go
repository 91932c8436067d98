// Package cycle finds the dominant periodicity of a price series.
package cycle

import "math"

const (
	// MinSamples is the shortest series that is scanned.
	MinSamples = 40
	minPeriod  = 5
	maxPeriod  = 60
)

// Detect returns the dominant cycle length in bars, or 0 when the series is
// too short or no period carries energy. The series is linearly detrended
// and each candidate period P in [5, min(60, N/2)) is probed with a single
// DFT bin; ties keep the shortest period.
func Detect(prices []float64) int {
	n := len(prices)
	if n < MinSamples {
		return 0
	}
	detrended := detrend(prices)

	var best float64
	dominant := 0
	for p := minPeriod; p <= maxPeriod && p < n/2; p++ {
		k := float64(n) / float64(p)
		var re, im float64
		for i, v := range detrended {
			angle := 2 * math.Pi * k * float64(i) / float64(n)
			re += v * math.Cos(angle)
			im -= v * math.Sin(angle)
		}
		power := math.Sqrt(re*re + im*im)
		if power > best {
			best = power
			dominant = p
		}
	}
	return dominant
}

// detrend removes the ordinary least-squares line fitted against the index.
func detrend(prices []float64) []float64 {
	n := float64(len(prices))
	xMean := (n - 1) / 2

	var yMean float64
	for _, p := range prices {
		yMean += p
	}
	yMean /= n

	var num, den float64
	for i, p := range prices {
		dx := float64(i) - xMean
		num += dx * (p - yMean)
		den += dx * dx
	}
	var slope float64
	if den != 0 {
		slope = num / den
	}
	intercept := yMean - slope*xMean

	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p - (slope*float64(i) + intercept)
	}
	return out
}
