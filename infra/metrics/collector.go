package metrics

import (
	"context"

	coremetrics "github.com/Raptacon/Robot-2020/core/metrics"
	"github.com/Raptacon/Robot-2020/infra/logger"
	"github.com/Raptacon/Robot-2020/internal/eventbus"
)

// StartBootCollector records every boot report published on bus into sink.
// It stops when ctx is canceled or the bus closes. The subscription is
// taken before returning so no report published afterwards is missed.
func StartBootCollector(ctx context.Context, bus *eventbus.TypedBus[coremetrics.BootReport], sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	log := logger.New("metrics-collector")
	bus.SubscribeFunc(ctx, func(r coremetrics.BootReport) {
		if err := sink.RecordBoot(r); err != nil {
			log.Warnf("record boot %s: %v", r.BootID, err)
		}
	})
}
