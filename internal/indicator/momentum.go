package indicator

import "math"

// RSI computes Wilder's Relative Strength Index. The first period deltas seed
// the average gain and loss, the rest update them with Wilder smoothing.
// It returns 50 when len(prices) <= period and 100 when there were no losses.
// A series with neither gains nor losses is neutral (50).
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) <= period {
		return 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	for i := period + 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		var gain, loss float64
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// AdaptiveRSI shortens the RSI period when recent prices are volatile and
// lengthens it when they are calm. The coefficient of variation of the last
// 20 prices scales basePeriod by 0.015/(cv+1e-4), clamped to [7, 28].
// Fewer than 30 prices fall back to the plain RSI.
func AdaptiveRSI(prices []float64, basePeriod int) float64 {
	const volWindow = 20
	if len(prices) < 30 {
		return RSI(prices, basePeriod)
	}

	window := prices[len(prices)-volWindow:]
	mean, stdDev := meanStdDev(window)
	if mean == 0 {
		return RSI(prices, basePeriod)
	}
	cv := stdDev / mean

	scaler := 0.015 / (cv + 0.0001)
	period := int(float64(basePeriod) * scaler)
	period = max(7, min(28, period))

	return RSI(prices, period)
}

// MACD returns the MACD line (EMA12 − EMA26) and its 9-period signal line at
// the last bar. Both are 0 with fewer than 26 prices or too few MACD values
// to seed the signal line.
func MACD(prices []float64) (macd, signal float64) {
	const fast, slow, sig = 12, 26, 9
	if len(prices) < slow {
		return 0, 0
	}

	emaFast := EMA(prices, fast)
	emaSlow := EMA(prices, slow)

	// emaFast[j] is bar j+fast-1, emaSlow[j] is bar j+slow-1.
	offset := slow - fast
	line := make([]float64, len(emaSlow))
	for j := range emaSlow {
		line[j] = emaFast[j+offset] - emaSlow[j]
	}

	signalLine := EMA(line, sig)
	if len(signalLine) == 0 {
		return 0, 0
	}
	return last(line), last(signalLine)
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
