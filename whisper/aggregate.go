package whisper

import "fmt"

// aggregate reduces a non-empty slice of kept values to a single
// coarse-archive value per the given aggregation method. Only Average is
// required by the core write path's invariants; the others are provided
// with their natural meaning.
func aggregate(method AggregationMethod, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("whisper: cannot aggregate zero values")
	}

	switch method {
	case Average:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	case Sum:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case Last:
		return values[len(values)-1], nil
	case Max:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	case Min:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, nil
	default:
		return 0, fmt.Errorf("whisper: unknown aggregation method %v", method)
	}
}
