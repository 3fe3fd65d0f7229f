package metrics

import "time"

// OrderEventKind classifies an order lifecycle event.
type OrderEventKind string

const (
	OrderPlaced    OrderEventKind = "placed"
	OrderCompleted OrderEventKind = "completed"
	OrderCanceled  OrderEventKind = "canceled"
)

// OrderEvent represents one order lifecycle transition to be recorded.
type OrderEvent struct {
	Kind        OrderEventKind
	Depot       string
	OrderNumber int
	Ware        string
	Quantity    int
	Time        time.Time
}

// Sink records order events for observability purposes.
type Sink interface {
	RecordOrderEvent(ev OrderEvent) error
}

// ResourceLevelEvent is a snapshot of one resource's stock accounting at a
// consumer depot.
type ResourceLevelEvent struct {
	Depot    string
	Ware     string
	Stock    int
	Inbound  int
	Capacity int
	Time     time.Time
}

// ResourceLevelRecorder records resource stock snapshots.
type ResourceLevelRecorder interface {
	RecordResourceLevel(ev ResourceLevelEvent) error
}

// ProductLevelEvent is a snapshot of a producer depot's sale stock.
type ProductLevelEvent struct {
	Depot    string
	Ware     string
	Stock    int
	Reserved int
	Capacity int
	Time     time.Time
}

// ProductLevelRecorder records product stock snapshots.
type ProductLevelRecorder interface {
	RecordProductLevel(ev ProductLevelEvent) error
}

// IdleWorkersEvent reports the idle headcount of one worker pool.
type IdleWorkersEvent struct {
	Pool  string
	Idle  int
	Total int
	Time  time.Time
}

// IdleWorkersRecorder records worker pool utilization.
type IdleWorkersRecorder interface {
	RecordIdleWorkers(ev IdleWorkersEvent) error
}

// NopSink implements Sink and every optional recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordOrderEvent(OrderEvent) error            { return nil }
func (NopSink) RecordResourceLevel(ResourceLevelEvent) error { return nil }
func (NopSink) RecordProductLevel(ProductLevelEvent) error   { return nil }
func (NopSink) RecordIdleWorkers(IdleWorkersEvent) error     { return nil }
