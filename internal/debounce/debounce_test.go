package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLastRuns(t *testing.T) {
	d := New()

	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		i := int32(i)
		d.Arm(20*time.Millisecond, func() {
			calls.Add(1)
			last.Store(i)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New()

	var calls atomic.Int32
	h := d.Arm(20*time.Millisecond, func() { calls.Add(1) })
	d.Cancel(h)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncer_CancelStaleHandle(t *testing.T) {
	d := New()

	var calls atomic.Int32
	stale := d.Arm(20*time.Millisecond, func() { calls.Add(10) })
	d.Arm(20*time.Millisecond, func() { calls.Add(1) })
	d.Cancel(stale)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	d := New()

	var calls atomic.Int32
	d.Arm(20*time.Millisecond, func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncer_Latest(t *testing.T) {
	var d Debouncer
	defer d.Stop()

	first := d.Arm(time.Hour, func() {})
	second := d.Arm(time.Hour, func() {})
	assert.Greater(t, second, first)
	assert.Equal(t, second, d.Latest())
}
