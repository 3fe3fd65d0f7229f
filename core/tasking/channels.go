package tasking

import "github.com/tbochard/freightyard/internal/eventbus"

// OrderSnapshot is the display state of one order slot.
type OrderSnapshot struct {
	Quantity int
	WareCode string
	WareName string
}

// ActorsAssigned reports the depot/worker pair chosen to fulfil an order.
type ActorsAssigned struct {
	Order  *Order
	Target Depot
	Worker Worker
}

// QuantityChange reports a downward revision of an order's quantity.
type QuantityChange struct {
	WareIndex int
	Removed   int
}

// WareTransfer reports goods moved for an order.
type WareTransfer struct {
	Order  *Order
	Amount int
}

// ActiveOrder marks an order slot going active or returning to the pool.
type ActiveOrder struct {
	OrderID int
	Active  bool
}

// ResourceLevel is the (stock, inbound, capacity) triple for one resource,
// broadcast whenever the inbound counter moves.
type ResourceLevel struct {
	WareIndex int
	Stock     int
	Inbound   int
	Capacity  int
}

// ProductLevel is the producer-side (stock, reserved, capacity) triple.
type ProductLevel struct {
	Stock    int
	Reserved int
	Capacity int
}

// OrderChannel carries lifecycle notifications for one order slot. Every
// Order owns exactly one; channels are never shared between slots.
type OrderChannel struct {
	Snapshot        *eventbus.Signal[OrderSnapshot]
	ActorsAssigned  *eventbus.Signal[ActorsAssigned]
	PickupPointSet  *eventbus.Signal[string]
	WorkerStatus    *eventbus.Signal[string]
	FailedScans     *eventbus.Signal[int]
	QuantityReduced *eventbus.Signal[QuantityChange]
	WareCollected   *eventbus.Signal[WareTransfer]
	WareDelivered   *eventbus.Signal[WareTransfer]
	Completed       *eventbus.Signal[*Order]
	Canceled        *eventbus.Signal[*Order]
}

func newOrderChannel() *OrderChannel {
	return &OrderChannel{
		Snapshot:        eventbus.NewSignal[OrderSnapshot](),
		ActorsAssigned:  eventbus.NewSignal[ActorsAssigned](),
		PickupPointSet:  eventbus.NewSignal[string](),
		WorkerStatus:    eventbus.NewSignal[string](),
		FailedScans:     eventbus.NewSignal[int](),
		QuantityReduced: eventbus.NewSignal[QuantityChange](),
		WareCollected:   eventbus.NewSignal[WareTransfer](),
		WareDelivered:   eventbus.NewSignal[WareTransfer](),
		Completed:       eventbus.NewSignal[*Order](),
		Canceled:        eventbus.NewSignal[*Order](),
	}
}

// ManagerChannel aggregates pool-level notifications for one order handler
// and its owning manager. The producer and consumer sides of a depot each
// have their own instance; an order in flight talks to both so the two depots
// involved stay consistent.
type ManagerChannel struct {
	Status             *eventbus.Signal[string]
	ActiveOrder        *eventbus.Signal[ActiveOrder]
	OrderPlaced        *eventbus.Signal[*Order]
	OrderCompleted     *eventbus.Signal[*Order]
	OrderCanceled      *eventbus.Signal[*Order]
	FreeOrderAvailable *eventbus.Signal[struct{}]
	AllFreeOrdersTaken *eventbus.Signal[struct{}]
	AllOrdersAssigned  *eventbus.Signal[struct{}]
	ResourceLevel      *eventbus.Signal[ResourceLevel]
	ProductLevel       *eventbus.Signal[ProductLevel]
}

// NewManagerChannel creates a ManagerChannel with all signals initialized.
func NewManagerChannel() *ManagerChannel {
	return &ManagerChannel{
		Status:             eventbus.NewSignal[string](),
		ActiveOrder:        eventbus.NewSignal[ActiveOrder](),
		OrderPlaced:        eventbus.NewSignal[*Order](),
		OrderCompleted:     eventbus.NewSignal[*Order](),
		OrderCanceled:      eventbus.NewSignal[*Order](),
		FreeOrderAvailable: eventbus.NewSignal[struct{}](),
		AllFreeOrdersTaken: eventbus.NewSignal[struct{}](),
		AllOrdersAssigned:  eventbus.NewSignal[struct{}](),
		ResourceLevel:      eventbus.NewSignal[ResourceLevel](),
		ProductLevel:       eventbus.NewSignal[ProductLevel](),
	}
}

// AssignmentChannel carries status notifications from the assignment manager.
type AssignmentChannel struct {
	ScanComplete *eventbus.Signal[struct{}]
	Status       *eventbus.Signal[string]
}

// NewAssignmentChannel creates an AssignmentChannel.
func NewAssignmentChannel() *AssignmentChannel {
	return &AssignmentChannel{
		ScanComplete: eventbus.NewSignal[struct{}](),
		Status:       eventbus.NewSignal[string](),
	}
}

// WorkerPoolChannel carries notifications from one worker pool.
type WorkerPoolChannel struct {
	Status    *eventbus.Signal[string]
	IdleCount *eventbus.Signal[int]
}

// NewWorkerPoolChannel creates a WorkerPoolChannel.
func NewWorkerPoolChannel() *WorkerPoolChannel {
	return &WorkerPoolChannel{
		Status:    eventbus.NewSignal[string](),
		IdleCount: eventbus.NewSignal[int](),
	}
}
