package vector

import "math"

// EuclideanDistance returns the L2 distance between a and b.
// Only the first min(len(a), len(b)) coordinates are compared.
func EuclideanDistance(a, b []float32) float64 {
	return math.Sqrt(SquaredEuclideanDistance(a, b))
}

// SquaredEuclideanDistance returns the squared L2 distance between a and b.
func SquaredEuclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func euclideanToCenter(q []float32, center []float64) float64 {
	var sum float64
	for i := range center {
		d := float64(q[i]) - center[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
