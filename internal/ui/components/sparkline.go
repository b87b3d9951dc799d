package components

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders a series of 0..100 values as one row of block glyphs.
// Series longer than width are downsampled by bucket maximum so short loud
// bursts stay visible.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}
	if len(values) > width {
		values = downsampleMax(values, width)
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(v / 100 * float64(len(sparkRunes)))
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func downsampleMax(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		max := values[lo]
		for _, v := range values[lo+1 : hi] {
			if v > max {
				max = v
			}
		}
		out[i] = max
	}
	return out
}
