package domain

// GraphPoint is a trend point mapped onto graph canvas coordinates.
type GraphPoint struct {
	X float64
	Y float64
}

// ScaleTrend maps the trend onto a width x height canvas: x evenly spaced by
// index, y scaled between the session's own min and max values with a range
// floor of 1, inverted because SVG y grows downward.
func ScaleTrend(points []TrendPoint, width, height int) []GraphPoint {
	if len(points) == 0 {
		return nil
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	span := hi - lo
	if span < 1 {
		span = 1
	}
	step := 0.0
	if len(points) > 1 {
		step = float64(width) / float64(len(points)-1)
	}
	out := make([]GraphPoint, len(points))
	for i, p := range points {
		out[i] = GraphPoint{
			X: float64(i) * step,
			Y: float64(height) - (p.Value-lo)/span*float64(height),
		}
	}
	return out
}
