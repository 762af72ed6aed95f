package indicators

import "math"

// rollingWindow keeps the last size values pushed into it.
type rollingWindow struct {
	buf  []float64
	next int
	n    int
}

func newRollingWindow(size int) *rollingWindow {
	return &rollingWindow{buf: make([]float64, size)}
}

func (w *rollingWindow) push(v float64) {
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
	if w.n < len(w.buf) {
		w.n++
	}
}

// full reports whether size values have been seen.
func (w *rollingWindow) full() bool { return w.n == len(w.buf) }

// mean is summed from the buffer on every call so it never accumulates drift.
func (w *rollingWindow) mean() float64 {
	var sum float64
	for i := 0; i < w.n; i++ {
		sum += w.buf[i]
	}
	return sum / float64(w.n)
}

// stddev returns the sample standard deviation (n-1 denominator).
func (w *rollingWindow) stddev() float64 {
	if w.n < 2 {
		return 0
	}
	m := w.mean()
	var ss float64
	for i := 0; i < w.n; i++ {
		d := w.buf[i] - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(w.n-1))
}

// ema is a recursive exponential moving average seeded with its first input.
type ema struct {
	alpha  float64
	value  float64
	seeded bool
}

func newEMA(span int) *ema {
	return &ema{alpha: 2 / (float64(span) + 1)}
}

func (e *ema) push(v float64) float64 {
	if !e.seeded {
		e.value = v
		e.seeded = true
		return e.value
	}
	e.value = e.alpha*v + (1-e.alpha)*e.value
	return e.value
}

// rsi averages gains and losses of close-to-close differences over a
// rolling window. The first close has no difference, so the first value is
// available after period+1 closes.
type rsi struct {
	gains  *rollingWindow
	losses *rollingWindow
	prev   float64
	seen   bool
}

func newRSI(period int) *rsi {
	return &rsi{gains: newRollingWindow(period), losses: newRollingWindow(period)}
}

func (r *rsi) push(close float64) (float64, bool) {
	if !r.seen {
		r.prev, r.seen = close, true
		return 0, false
	}
	d := close - r.prev
	r.prev = close

	var gain, loss float64
	if d > 0 {
		gain = d
	} else if d < 0 {
		loss = -d
	}
	r.gains.push(gain)
	r.losses.push(loss)
	if !r.gains.full() {
		return 0, false
	}

	avgLoss := r.losses.mean()
	// No losses in the window: relative strength is unbounded, RSI saturates
	// at 100. This also covers a completely flat window.
	if avgLoss == 0 {
		return 100, true
	}
	rs := r.gains.mean() / avgLoss
	return 100 - 100/(1+rs), true
}
