package timeseries

// FitLinearTrend returns the ordinary least squares slope of series[i]
// against i. Fewer than two points, or no spread in the index, yields 0.
func FitLinearTrend(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}

	// slope = (n*sum(xy) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
	var sumX, sumY, sumXX, sumXY float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	return (nf*sumXY - sumX*sumY) / denom
}

// SampleVariance is the unbiased (n-1) variance, 0 for fewer than two points.
func SampleVariance(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}

	mean := Mean(series)
	var ss float64
	for _, v := range series {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
}

func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
