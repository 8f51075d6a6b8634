package input

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	leftY atomic.Value
}

func (f *fakeSource) RawAxis(a Axis) float64 {
	if a != LeftY {
		return 0.25
	}
	v, _ := f.leftY.Load().(float64)
	return v
}

func (f *fakeSource) POV() int { return 90 }

func TestSampler_InitialSnapshotIsZero(t *testing.T) {
	s := NewSampler(nil, 0)
	assert.Equal(t, DefaultInterval, s.Interval())
	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.False(t, s.Running())
}

func TestSampler_RefreshesUntilCancelled(t *testing.T) {
	src := &fakeSource{}
	src.leftY.Store(-0.5)
	s := NewSampler(src, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	s.Start(ctx)

	require.Eventually(t, func() bool { return s.Samples() > 2 }, time.Second, time.Millisecond)
	snap := s.Snapshot()
	assert.Equal(t, -0.5, snap.Axis(LeftY))
	assert.Equal(t, 0.25, snap.Axis(RightTrigger))
	assert.Equal(t, 90, snap.POV)
	assert.False(t, snap.Taken.IsZero())

	src.leftY.Store(1.0)
	require.Eventually(t, func() bool { return s.Snapshot().LeftY == 1.0 }, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return !s.Running() }, time.Second, time.Millisecond)
	n := s.Samples()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, s.Samples())
}

func TestSnapshot_UnknownAxis(t *testing.T) {
	assert.Zero(t, Snapshot{LeftX: 1}.Axis(axisCount))
}
