package tasking

import (
	"fmt"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// OrderStatus tracks where an order slot is in its lifecycle. Terminal
// outcomes (completion, cancellation) loop the slot back to Free.
type OrderStatus int

const (
	// StatusFree marks an unused slot awaiting population.
	StatusFree OrderStatus = iota
	// StatusOpen marks a populated order awaiting actor assignment.
	StatusOpen
	// StatusAssigned marks an order with a target depot and worker in flight.
	StatusAssigned
)

func (s OrderStatus) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusOpen:
		return "open"
	case StatusAssigned:
		return "assigned"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Order is a reusable task record for moving a quantity of one ware from a
// producer depot to its home depot via a worker. Orders live in a fixed pool
// owned by an OrderHandler: the slot id is stable for the process lifetime
// and the record is reset and recycled rather than reallocated.
type Order struct {
	id      int
	home    Depot
	channel *OrderChannel

	number    int
	status    OrderStatus
	name      string
	ware      model.Ware
	hasWare   bool
	wareIndex int
	quantity  int

	failedScans       int
	scansBeforeCancel int

	target          Depot
	worker          Worker
	pickupBay       DockingBay
	departSub       eventbus.Subscription
	quantityRevised bool

	log logger.Logger
}

// NewOrder creates the order for pool slot id. Orders are only created at
// pool-initialization time by an OrderHandler. A scansBeforeCancel of zero
// means the order never self-cancels.
func NewOrder(id int, home Depot, scansBeforeCancel int, log logger.Logger) *Order {
	if log == nil {
		log = logger.Nop{}
	}
	return &Order{
		id:                id,
		home:              home,
		channel:           newOrderChannel(),
		scansBeforeCancel: scansBeforeCancel,
		log:               log,
	}
}

// ID returns the stable pool-slot id.
func (o *Order) ID() int { return o.id }

// Number returns the human-readable order number, 1..999.
func (o *Order) Number() int { return o.number }

// Name returns the display name, prefixed with the order number.
func (o *Order) Name() string { return fmt.Sprintf("[%d] %s", o.number, o.name) }

// Status returns the current lifecycle status.
func (o *Order) Status() OrderStatus { return o.status }

// IsFree reports whether the slot is unused.
func (o *Order) IsFree() bool { return o.status == StatusFree }

// IsOpen reports whether the order awaits actor assignment.
func (o *Order) IsOpen() bool { return o.status == StatusOpen }

// IsAssigned reports whether actors have been assigned.
func (o *Order) IsAssigned() bool { return o.status == StatusAssigned }

// HomeDepot returns the consumer depot that owns the slot.
func (o *Order) HomeDepot() Depot { return o.home }

// Ware returns the ordered ware. Only meaningful while the order is open or
// assigned.
func (o *Order) Ware() model.Ware { return o.ware }

// WareIndex returns the ware's position in the home depot's recipe.
func (o *Order) WareIndex() int { return o.wareIndex }

// Quantity returns the quantity currently on order.
func (o *Order) Quantity() int { return o.quantity }

// MinimumQuantity returns the smallest acceptable quantity for the ware.
func (o *Order) MinimumQuantity() int { return o.ware.MinimumOrderAmount }

// TargetDepot returns the producer depot, or nil before assignment.
func (o *Order) TargetDepot() Depot { return o.target }

// Worker returns the assigned worker, or nil before assignment.
func (o *Order) Worker() Worker { return o.worker }

// PickupBay returns the reserved docking bay, or nil before registration.
func (o *Order) PickupBay() DockingBay { return o.pickupBay }

// FailedScans returns the consecutive failed supplier scans so far.
func (o *Order) FailedScans() int { return o.failedScans }

// ScansBeforeCancel returns the retry ceiling; zero means unlimited.
func (o *Order) ScansBeforeCancel() int { return o.scansBeforeCancel }

// Channel returns the order's notification channel.
func (o *Order) Channel() *OrderChannel { return o.channel }

// Populate defines what the order is for and moves the slot to Open, where it
// awaits AssignActors. Valid only on a Free slot; the pool's search contract
// guarantees that, so no guard beyond a debug log is applied here.
func (o *Order) Populate(name string, number int, ware model.Ware, wareIndex, quantity int) {
	if !o.IsFree() {
		o.log.Warnf("order %d populated while %s", o.id, o.status)
	}
	o.status = StatusOpen
	o.number = number
	o.name = name
	o.ware = ware
	o.hasWare = true
	o.wareIndex = wareIndex
	o.quantity = quantity
	o.failedScans = 0
	o.quantityRevised = false
	o.log.Debugf("order %d (#%d) populated: %d x %s, status %s", o.id, o.number, quantity, ware.Code, o.status)
	o.BroadcastSnapshot()
}

// AssignActors sets the producer depot and worker responsible for fulfilling
// the order and moves it to Assigned. The order subscribes to the worker's
// departed-toward-home signal so the pickup bay is released exactly once when
// loading finishes.
func (o *Order) AssignActors(target Depot, worker Worker) {
	o.status = StatusAssigned
	o.target = target
	o.worker = worker
	o.departSub = worker.DepartedTowardHome().Subscribe(o.onWorkerDeparted)
	o.log.Debugf("order %d (#%d) assigned to %s via %s", o.id, o.number, target.Name(), worker.Name())
	o.channel.ActorsAssigned.Publish(ActorsAssigned{Order: o, Target: target, Worker: worker})
}

func (o *Order) onWorkerDeparted(struct{}) {
	if o.pickupBay == nil {
		return
	}
	o.pickupBay.Release()
	o.pickupBay = nil
}

// SetPickupDockingBay records the bay reserved at the target depot and
// broadcasts its name.
func (o *Order) SetPickupDockingBay(bay DockingBay) {
	o.pickupBay = bay
	o.channel.PickupPointSet.Publish(bay.Name())
}

// UpdateQuantity re-checks the target depot's available stock and lowers the
// order quantity to match if the depot holds less than was ordered. The
// revision happens at most once per order, immediately after assignment, and
// only ever downward; the removed amount is broadcast so the home depot can
// shrink its inbound counter.
func (o *Order) UpdateQuantity() {
	if o.quantityRevised || o.target == nil {
		return
	}
	o.quantityRevised = true
	available := o.target.AvailableProductStock()
	if available >= o.quantity {
		return
	}
	removed := o.quantity - available
	o.quantity = available
	o.log.Debugf("order %d (#%d) quantity reduced by %d to %d to match supplier stock", o.id, o.number, removed, available)
	o.BroadcastSnapshot()
	o.channel.QuantityReduced.Publish(QuantityChange{WareIndex: o.wareIndex, Removed: removed})
}

// RetryAfterFailedScan increments the failed-scan count and reports whether
// the order may keep waiting for a supplier. With a zero ceiling it always
// reports true without counting. Reaching the ceiling resets the counter,
// cancels the order, and reports false.
func (o *Order) RetryAfterFailedScan() bool {
	if o.scansBeforeCancel == 0 {
		return true
	}
	o.failedScans++
	o.channel.FailedScans.Publish(o.failedScans)
	if o.failedScans < o.scansBeforeCancel {
		return true
	}
	o.failedScans = 0
	o.cancel()
	return false
}

// WareWasCollected reports that the worker loaded amount at the target depot.
func (o *Order) WareWasCollected(amount int) {
	o.channel.WareCollected.Publish(WareTransfer{Order: o, Amount: amount})
}

// WareWasDelivered reports that the worker unloaded amount at the home depot.
func (o *Order) WareWasDelivered(amount int) {
	o.channel.WareDelivered.Publish(WareTransfer{Order: o, Amount: amount})
}

// Complete broadcasts the completion notification, then resets the slot for
// reuse. The handler and both managers reconcile their counters in response.
func (o *Order) Complete() {
	o.log.Debugf("order %d (#%d) complete", o.id, o.number)
	o.channel.Completed.Publish(o)
	o.reset()
}

func (o *Order) cancel() {
	o.log.Debugf("order %d (#%d) canceled", o.id, o.number)
	o.channel.Canceled.Publish(o)
	o.reset()
}

func (o *Order) reset() {
	o.name = ""
	o.ware = model.Ware{}
	o.hasWare = false
	o.wareIndex = 0
	o.quantity = 0
	o.failedScans = 0
	o.quantityRevised = false

	o.target = nil
	if o.worker != nil {
		o.worker.DepartedTowardHome().Unsubscribe(o.departSub)
		o.departSub = eventbus.Subscription{}
		o.worker = nil
	}
	o.pickupBay = nil

	o.status = StatusFree
	o.BroadcastSnapshot()
}

// BroadcastSnapshot publishes the order's display state so panels tracking
// the slot stay current even across resets.
func (o *Order) BroadcastSnapshot() {
	snap := OrderSnapshot{WareCode: "NA", WareName: "NA"}
	if o.hasWare {
		snap = OrderSnapshot{Quantity: o.quantity, WareCode: o.ware.Code, WareName: o.ware.Name}
	}
	o.channel.Snapshot.Publish(snap)
	status := "None"
	if o.worker != nil {
		status = o.worker.Name()
	}
	o.channel.WorkerStatus.Publish(status)
}
