package circuitbreaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow_NotEvaluatedUntilFull(t *testing.T) {
	w := newSlidingWindow(4)

	assert.False(t, w.record(true, 50))
	assert.False(t, w.record(true, 50))
	assert.False(t, w.record(true, 50))
	assert.Equal(t, float64(-1), w.failureRate())

	assert.True(t, w.record(false, 50))
	assert.Equal(t, float64(75), w.failureRate())
}

func TestSlidingWindow_OldestOutcomeDropped(t *testing.T) {
	w := newSlidingWindow(2)

	w.record(true, 50)
	w.record(false, 50)
	assert.Equal(t, float64(50), w.failureRate())

	// the leading failure leaves the window
	assert.False(t, w.record(false, 50))
	assert.Equal(t, float64(0), w.failureRate())
}

func TestSlidingWindow_Reset(t *testing.T) {
	w := newSlidingWindow(2)
	w.record(true, 50)
	w.record(true, 50)
	assert.True(t, w.exceeded(50))

	w.reset()
	assert.False(t, w.exceeded(50))
	assert.Equal(t, float64(-1), w.failureRate())
}
