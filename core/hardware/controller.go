package hardware

import (
	"context"
	"sync"

	"github.com/Raptacon/Robot-2020/core/input"
)

// ControllerConfig describes a driver station controller port.
type ControllerConfig struct {
	Channel int `json:"channel"`
}

// Controller is an Xbox controller whose axes are sampled in the background.
// Reads never block the control loop.
type Controller struct {
	channel int
	sampler *input.Sampler

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (c *Controller) Kind() Kind   { return KindController }
func (c *Controller) Channel() int { return c.channel }

// Start begins sampling until ctx is done or Stop is called. Only the first
// call has an effect.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.sampler.Start(ctx)
}

// Stop ends sampling. The last snapshot stays readable.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Running reports whether the sampler goroutine is alive.
func (c *Controller) Running() bool { return c.sampler.Running() }

// Samples counts completed refreshes.
func (c *Controller) Samples() uint64 { return c.sampler.Samples() }

// Snapshot returns the latest sampled state.
func (c *Controller) Snapshot() input.Snapshot { return c.sampler.Snapshot() }

// Axis is shorthand for Snapshot().Axis(a).
func (c *Controller) Axis(a input.Axis) float64 { return c.sampler.Snapshot().Axis(a) }
