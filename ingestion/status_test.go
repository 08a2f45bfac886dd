package ingestion

import (
	"sync"
	"testing"

	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
)

func TestStatusTrackerStartsIdle(t *testing.T) {
	tracker := NewStatusTracker()
	assert.Equal(t, core.JobIdle, tracker.Current())
	assert.Equal(t, "Idle", tracker.Current().String())
}

func TestStatusTrackerLastWriteWins(t *testing.T) {
	tracker := NewStatusTracker()

	tracker.Set(core.JobProcessing)
	assert.Equal(t, core.JobProcessing, tracker.Current())
	assert.Equal(t, "Processing", tracker.Current().String())

	tracker.Set(core.JobIdle)
	tracker.Set(core.JobProcessing)
	tracker.Set(core.JobIdle)
	assert.Equal(t, core.JobIdle, tracker.Current())
}

func TestStatusTrackerConcurrentAccess(t *testing.T) {
	tracker := NewStatusTracker()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				tracker.Set(core.JobProcessing)
			} else {
				tracker.Current()
			}
		}(i)
	}
	wg.Wait()

	// Whatever raced last, the tracker holds a valid state.
	state := tracker.Current()
	assert.Contains(t, []core.JobState{core.JobIdle, core.JobProcessing}, state)
}
