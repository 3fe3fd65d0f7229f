package tasking

import (
	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// ProductOrderManager is the producer-side coordinator for one depot. It
// accepts incoming product orders from other depots, reserves outgoing stock
// and a docking bay against each, and tracks the reserved total until pickup.
// The reservation array is fixed-size: one concurrent order per docking bay.
type ProductOrderManager struct {
	depot    Depot
	storage  Storage
	docking  DockingModule
	channel  *ManagerChannel
	slots    []*Order
	reserved int
	subs     map[*Order]productSubs
	log      logger.Logger
}

type productSubs struct {
	completed eventbus.Subscription
	collected eventbus.Subscription
}

// NewProductOrderManager creates the manager with one reservation slot per
// docking bay.
func NewProductOrderManager(depot Depot, docking DockingModule, channel *ManagerChannel, log logger.Logger) *ProductOrderManager {
	if log == nil {
		log = logger.Nop{}
	}
	return &ProductOrderManager{
		depot:   depot,
		storage: depot.Storage(),
		docking: docking,
		channel: channel,
		slots:   make([]*Order, docking.BayCount()),
		subs:    make(map[*Order]productSubs),
		log:     log,
	}
}

// Depot returns the producer depot this manager sells for.
func (m *ProductOrderManager) Depot() Depot { return m.depot }

// Channel returns the producer-side manager channel.
func (m *ProductOrderManager) Channel() *ManagerChannel { return m.channel }

// Reserved returns the product quantity promised to outstanding orders.
func (m *ProductOrderManager) Reserved() int { return m.reserved }

// HasPendingOrders reports whether any stock is still reserved.
func (m *ProductOrderManager) HasPendingOrders() bool { return m.reserved > 0 }

// IsOpenForBusiness reports whether a free reservation slot exists.
func (m *ProductOrderManager) IsOpenForBusiness() bool { return m.freeSlot() >= 0 }

// CanAccept reports whether RegisterProductOrder would currently succeed:
// a free reservation slot and a free docking bay.
func (m *ProductOrderManager) CanAccept() bool {
	return m.freeSlot() >= 0 && m.docking.FreeBay() != nil
}

// AvailableStock returns the product quantity actually for sale: stock on
// hand minus what is already reserved, floored at zero.
func (m *ProductOrderManager) AvailableStock() int {
	available := m.storage.ProductStock() - m.reserved
	if available < 0 {
		return 0
	}
	return available
}

// RegisterProductOrder reserves stock and a docking bay for an order whose
// actors are already assigned. It fails without side effects when no
// reservation slot or no bay is free. On success the bay is reserved for the
// order's worker, the order quantity is added to the reserved total, the
// manager subscribes to the order's collection and completion notifications,
// and the updated product level is broadcast.
func (m *ProductOrderManager) RegisterProductOrder(order *Order) bool {
	slot := m.freeSlot()
	if slot < 0 {
		m.log.Warnf("%s: no product order slots are available for %s", m.depot.Name(), order.Name())
		return false
	}
	bay := m.docking.FreeBay()
	if bay == nil {
		m.log.Warnf("%s: no docking bays are available for %s", m.depot.Name(), order.Name())
		return false
	}

	bay.Reserve(order.Worker())
	order.SetPickupDockingBay(bay)
	m.subs[order] = productSubs{
		completed: order.Channel().Completed.Subscribe(m.onOrderCompleted),
		collected: order.Channel().WareCollected.Subscribe(m.onWareCollected),
	}
	m.slots[slot] = order
	m.reserved += order.Quantity()
	m.publishProductLevel()

	m.log.Debugf("%s: registered %s for %d %s(s), %d reserved in total",
		m.depot.Name(), order.Name(), order.Quantity(), order.Ware().Name, m.reserved)
	return true
}

// onWareCollected releases the collected amount from the reserved total and
// withdraws it from storage; the goods are on the worker now.
func (m *ProductOrderManager) onWareCollected(t WareTransfer) {
	m.reserved -= t.Amount
	m.storage.WithdrawProduct(t.Amount)
	m.publishProductLevel()
}

// onOrderCompleted frees the reservation slot and detaches from the order.
func (m *ProductOrderManager) onOrderCompleted(order *Order) {
	m.clearOrder(order)
	m.log.Debugf("%s: %s completed, %d reserved in total", m.depot.Name(), order.Name(), m.reserved)
}

// clearOrder unsubscribes from the order and empties its reservation slot.
// Reports whether the order was found; a second call is a no-op.
func (m *ProductOrderManager) clearOrder(order *Order) bool {
	s, ok := m.subs[order]
	if ok {
		order.Channel().Completed.Unsubscribe(s.completed)
		order.Channel().WareCollected.Unsubscribe(s.collected)
		delete(m.subs, order)
	}
	for i, o := range m.slots {
		if o == order {
			m.slots[i] = nil
			return true
		}
	}
	return false
}

func (m *ProductOrderManager) freeSlot() int {
	for i, o := range m.slots {
		if o == nil {
			return i
		}
	}
	return -1
}

func (m *ProductOrderManager) publishProductLevel() {
	m.channel.ProductLevel.Publish(ProductLevel{
		Stock:    m.storage.ProductStock(),
		Reserved: m.reserved,
		Capacity: m.storage.ProductStorageSize(),
	})
}
