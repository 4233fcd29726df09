package microtask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPumpRunsScheduledCallbacks(t *testing.T) {
	q := New()
	var order []int
	q.Schedule(func() { order = append(order, 1) })
	q.Schedule(func() { order = append(order, 2) })

	ran := q.Pump()

	assert.True(t, ran)
	assert.Equal(t, []int{1, 2}, order)
	assert.True(t, q.Empty())
}

func TestPumpDrainsCallbacksScheduledDuringDrain(t *testing.T) {
	q := New()
	var order []int
	q.Schedule(func() {
		order = append(order, 1)
		q.Schedule(func() { order = append(order, 2) })
	})

	q.Pump()

	assert.Equal(t, []int{1, 2}, order)
}

func TestPumpOnEmptyQueueReportsFalse(t *testing.T) {
	q := New()
	assert.False(t, q.Pump())
}
