package domain

// Aggregate tracks running statistics over every sample taken since the
// session started. Max and mean are derived from it, never stored separately.
type Aggregate struct {
	Count int
	Sum   float64
	Max   float64
}

func (a *Aggregate) Observe(v float64) {
	a.Count++
	a.Sum += v
	if v > a.Max {
		a.Max = v
	}
}

func (a Aggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// Window is a fixed-capacity rolling window over the most recent samples,
// used to smooth the displayed value.
type Window struct {
	values   []float64
	capacity int
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{capacity: capacity}
}

func (w *Window) Push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.capacity {
		w.values = w.values[1:]
	}
}

func (w *Window) Len() int {
	return len(w.values)
}

func (w *Window) Mean() float64 {
	if len(w.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values))
}
