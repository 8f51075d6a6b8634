package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
	"github.com/Raptacon/Robot-2020/infra/logger"
	"github.com/Raptacon/Robot-2020/internal/eventbus"
)

// BootPublisher sends boot reports off the robot.
type BootPublisher interface {
	PublishBoot(coremetrics.BootReport) error
}

// StartBootForwarder publishes every boot report seen on bus until ctx is
// done or the bus closes.
func StartBootForwarder(ctx context.Context, bus *eventbus.TypedBus[coremetrics.BootReport], pub BootPublisher) {
	if bus == nil || pub == nil {
		return
	}
	log := logger.New("mqtt-forwarder")
	bus.SubscribeFunc(ctx, func(r coremetrics.BootReport) {
		if err := pub.PublishBoot(r); err != nil {
			log.Errorf("boot report %s: %v", r.BootID, err)
		}
	})
}

// MockPublisher records boot reports. It is used in tests.
type MockPublisher struct {
	mu      sync.Mutex
	Reports []coremetrics.BootReport
	Fail    bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishBoot records r or fails when configured to.
func (m *MockPublisher) PublishBoot(r coremetrics.BootReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Reports = append(m.Reports, r)
	return nil
}

// Published returns a copy of the recorded reports.
func (m *MockPublisher) Published() []coremetrics.BootReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coremetrics.BootReport(nil), m.Reports...)
}
