package circuitbreaker

import "sync"

// slidingWindow keeps the outcome of the last size calls.
type slidingWindow struct {
	mu       sync.Mutex
	outcomes []bool // true = failure
	next     int
	filled   int
	failures int
}

func newSlidingWindow(size int) *slidingWindow {
	return &slidingWindow{outcomes: make([]bool, size)}
}

// record adds one outcome and reports whether the window is full and at or
// above thresholdPercent failures.
func (w *slidingWindow) record(failed bool, thresholdPercent float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.filled == len(w.outcomes) {
		if w.outcomes[w.next] {
			w.failures--
		}
	} else {
		w.filled++
	}

	w.outcomes[w.next] = failed
	if failed {
		w.failures++
	}
	w.next = (w.next + 1) % len(w.outcomes)

	return w.exceededLocked(thresholdPercent)
}

func (w *slidingWindow) exceeded(thresholdPercent float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exceededLocked(thresholdPercent)
}

func (w *slidingWindow) exceededLocked(thresholdPercent float64) bool {
	if w.filled < len(w.outcomes) {
		return false
	}
	return w.failureRateLocked() >= thresholdPercent
}

// failureRate returns the percentage of failures among recorded calls, or -1
// while the window is not yet full.
func (w *slidingWindow) failureRate() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled < len(w.outcomes) {
		return -1
	}
	return w.failureRateLocked()
}

func (w *slidingWindow) failureRateLocked() float64 {
	if w.filled == 0 {
		return 0
	}
	return float64(w.failures) * 100 / float64(w.filled)
}

func (w *slidingWindow) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.outcomes {
		w.outcomes[i] = false
	}
	w.next, w.filled, w.failures = 0, 0, 0
}
