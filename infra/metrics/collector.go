package metrics

import (
	"time"

	coremetrics "github.com/tbochard/freightyard/core/metrics"
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/core/tasking"
)

// CollectManagerEvents subscribes the sink to a manager channel's broadcasts.
// The same function serves both sides of a depot: a consumer-side channel
// fires order and resource events, a producer-side channel fires product
// levels.
func CollectManagerEvents(depot string, product model.Product, ch *tasking.ManagerChannel, sink coremetrics.Sink) {
	if ch == nil || sink == nil {
		return
	}
	record := func(kind coremetrics.OrderEventKind) func(*tasking.Order) {
		return func(o *tasking.Order) {
			_ = sink.RecordOrderEvent(coremetrics.OrderEvent{
				Kind:        kind,
				Depot:       depot,
				OrderNumber: o.Number(),
				Ware:        o.Ware().Name,
				Quantity:    o.Quantity(),
				Time:        time.Now(),
			})
		}
	}
	ch.OrderPlaced.Subscribe(record(coremetrics.OrderPlaced))
	ch.OrderCompleted.Subscribe(record(coremetrics.OrderCompleted))
	ch.OrderCanceled.Subscribe(record(coremetrics.OrderCanceled))

	ch.ResourceLevel.Subscribe(func(l tasking.ResourceLevel) {
		rec, ok := sink.(coremetrics.ResourceLevelRecorder)
		if !ok {
			return
		}
		_ = rec.RecordResourceLevel(coremetrics.ResourceLevelEvent{
			Depot:    depot,
			Ware:     product.Resource(l.WareIndex).Name,
			Stock:    l.Stock,
			Inbound:  l.Inbound,
			Capacity: l.Capacity,
			Time:     time.Now(),
		})
	})
	ch.ProductLevel.Subscribe(func(l tasking.ProductLevel) {
		rec, ok := sink.(coremetrics.ProductLevelRecorder)
		if !ok {
			return
		}
		_ = rec.RecordProductLevel(coremetrics.ProductLevelEvent{
			Depot:    depot,
			Ware:     product.Ware.Name,
			Stock:    l.Stock,
			Reserved: l.Reserved,
			Capacity: l.Capacity,
			Time:     time.Now(),
		})
	})
}

// CollectWorkerPool subscribes the sink to a worker pool's idle headcount.
func CollectWorkerPool(pool string, workers *tasking.WorkerManager, sink coremetrics.Sink) {
	if workers == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.IdleWorkersRecorder)
	if !ok {
		return
	}
	workers.Channel().IdleCount.Subscribe(func(idle int) {
		_ = rec.RecordIdleWorkers(coremetrics.IdleWorkersEvent{
			Pool:  pool,
			Idle:  idle,
			Total: workers.TotalWorkers(),
			Time:  time.Now(),
		})
	})
}
