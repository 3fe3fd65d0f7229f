package tasking

import (
	"time"

	"github.com/tbochard/freightyard/core/fsm"
	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// ResourceConfig holds tuning for the consumer-side manager.
type ResourceConfig struct {
	// StockScanDelay throttles how often the replenishing state looks for a
	// resource worth ordering.
	StockScanDelay time.Duration
}

// ResourceOrderManager is the consumer-side coordinator for one depot. It
// decides when the depot needs more of a resource, places orders against its
// own OrderHandler, and tracks inbound stock per resource: quantities already
// ordered but not yet delivered. Inbound counters are maintained solely from
// order lifecycle events, never recomputed from scratch after initialization.
type ResourceOrderManager struct {
	depot   Depot
	storage Storage
	channel *ManagerChannel
	handler *OrderHandler
	machine *fsm.StateMachine

	inbound            []int
	freeOrderAvailable bool
	subs               map[*Order]resourceSubs

	log logger.Logger
}

// resourceSubs remembers the per-order subscriptions so reconciliation can
// unsubscribe when the order reaches a terminal state.
type resourceSubs struct {
	reduced   eventbus.Subscription
	delivered eventbus.Subscription
}

// NewResourceOrderManager builds the manager together with its order pool.
// totalOrders should match the depot's worker count; scansBeforeCancel is the
// effective retry ceiling from EffectiveScanBudget.
func NewResourceOrderManager(depot Depot, channel *ManagerChannel, cfg ResourceConfig, totalOrders, scansBeforeCancel int, log, handlerLog, orderLog logger.Logger) *ResourceOrderManager {
	if log == nil {
		log = logger.Nop{}
	}
	m := &ResourceOrderManager{
		depot:   depot,
		storage: depot.Storage(),
		channel: channel,
		inbound: make([]int, depot.Product().ResourceCount()),
		subs:    make(map[*Order]resourceSubs),
		log:     log,
	}
	m.handler = NewOrderHandler(channel, depot, totalOrders, scansBeforeCancel, handlerLog, orderLog)
	m.freeOrderAvailable = m.handler.OrderAvailable()

	channel.FreeOrderAvailable.Subscribe(func(struct{}) { m.freeOrderAvailable = true })
	channel.AllFreeOrdersTaken.Subscribe(func(struct{}) { m.freeOrderAvailable = false })
	channel.OrderCompleted.Subscribe(m.onOrderCompleted)
	channel.OrderCanceled.Subscribe(m.onOrderCanceled)

	idle := fsm.NewIdle(log)
	idle.Started.Subscribe(func(struct{}) {
		m.channel.Status.Publish("stock is full or all orders in use")
	})
	replenishing := &replenishingStock{mgr: m, delay: cfg.StockScanDelay}

	m.machine = fsm.New()
	m.machine.AddTransition(idle, replenishing, m.canPlaceOrders)
	m.machine.AddTransition(replenishing, idle, m.cannotPlaceOrders)
	m.machine.SetState(idle)
	return m
}

// Tick advances the manager's state machine by dt.
func (m *ResourceOrderManager) Tick(dt time.Duration) { m.machine.Tick(dt) }

// Channel returns the consumer-side manager channel.
func (m *ResourceOrderManager) Channel() *ManagerChannel { return m.channel }

// OrderCount returns the order pool size.
func (m *ResourceOrderManager) OrderCount() int { return m.handler.OrderCount() }

// OrderByIndex returns the order slot at index.
func (m *ResourceOrderManager) OrderByIndex(index int) (*Order, error) { return m.handler.Order(index) }

// HasOpenOrder reports whether a placed order awaits assignment.
func (m *ResourceOrderManager) HasOpenOrder() bool { return m.handler.HasOpenOrder() }

// HasNoOpenOrders reports the absence of open orders.
func (m *ResourceOrderManager) HasNoOpenOrders() bool { return m.handler.HasNoOpenOrders() }

// OpenOrder returns the first open order, or nil.
func (m *ResourceOrderManager) OpenOrder() *Order { return m.handler.OpenOrder() }

// OrderAvailable reports whether a free order slot exists.
func (m *ResourceOrderManager) OrderAvailable() bool { return m.handler.OrderAvailable() }

// Inbound returns the inbound counter for one resource index.
func (m *ResourceOrderManager) Inbound(wareIndex int) int { return m.inbound[wareIndex] }

func (m *ResourceOrderManager) canPlaceOrders() bool {
	return !m.ResourceStockIsFull() && m.freeOrderAvailable
}

func (m *ResourceOrderManager) cannotPlaceOrders() bool {
	return m.ResourceStockIsFull() || !m.freeOrderAvailable
}

// ResourceStockIsFull reports whether every resource is covered: stock is NOT
// full while any resource has remaining storage space beyond what is already
// inbound.
func (m *ResourceOrderManager) ResourceStockIsFull() bool {
	for i := 0; i < m.depot.Product().ResourceCount(); i++ {
		if m.storage.RemainingResourceSpace(i)-m.inbound[i] > 0 {
			return false
		}
	}
	return true
}

// PlaceOrderForResource places an order for the given recipe index and
// registers the quantity as inbound. The reconciliation handlers subscribed
// here unwind the counter as the order is reduced, delivered, or canceled.
func (m *ResourceOrderManager) PlaceOrderForResource(wareIndex, amount int) *Order {
	ware := m.depot.Product().Resource(wareIndex)
	m.log.Debugf("%s: placing order for %d %s(s)", m.depot.Name(), amount, ware.Name)

	order := m.handler.PlaceOrder(ware, wareIndex, amount)
	if order == nil {
		return nil
	}
	m.subs[order] = resourceSubs{
		reduced:   order.Channel().QuantityReduced.Subscribe(m.onQuantityReduced),
		delivered: order.Channel().WareDelivered.Subscribe(m.onWareDelivered),
	}
	m.inbound[wareIndex] += amount
	m.publishResourceLevel(wareIndex)
	return order
}

// onQuantityReduced shrinks the inbound counter when an order's quantity is
// revised downward after assignment.
func (m *ResourceOrderManager) onQuantityReduced(c QuantityChange) {
	m.inbound[c.WareIndex] -= c.Removed
	m.publishResourceLevel(c.WareIndex)
}

// onWareDelivered moves delivered goods from inbound into storage.
func (m *ResourceOrderManager) onWareDelivered(t WareTransfer) {
	m.inbound[t.Order.WareIndex()] -= t.Amount
	m.storage.DepositResource(t.Order.WareIndex(), t.Amount)
	m.publishResourceLevel(t.Order.WareIndex())
}

// onOrderCanceled returns the order's full remaining quantity to the
// orderable pool and detaches from the order.
func (m *ResourceOrderManager) onOrderCanceled(order *Order) {
	m.unsubscribe(order)
	// The canceled signal fires before the slot reset, so the order still
	// carries its ware index and quantity here.
	m.inbound[order.WareIndex()] -= order.Quantity()
	m.publishResourceLevel(order.WareIndex())
}

// onOrderCompleted detaches from the order. Inbound was already zeroed by the
// delivery events that preceded completion.
func (m *ResourceOrderManager) onOrderCompleted(order *Order) {
	m.unsubscribe(order)
}

// unsubscribe detaches the per-order handlers. Calling it for an order that
// was never subscribed, or already unsubscribed, is a no-op.
func (m *ResourceOrderManager) unsubscribe(order *Order) {
	s, ok := m.subs[order]
	if !ok {
		return
	}
	order.Channel().QuantityReduced.Unsubscribe(s.reduced)
	order.Channel().WareDelivered.Unsubscribe(s.delivered)
	delete(m.subs, order)
}

// publishResourceLevel broadcasts the (stock, inbound, capacity) triple for
// one resource index.
func (m *ResourceOrderManager) publishResourceLevel(wareIndex int) {
	m.channel.ResourceLevel.Publish(ResourceLevel{
		WareIndex: wareIndex,
		Stock:     m.storage.ResourceStock(wareIndex),
		Inbound:   m.inbound[wareIndex],
		Capacity:  m.depot.Product().Resource(wareIndex).StorageSize,
	})
}

// nextShortfall returns the first resource index with room to order more,
// accounting for inbound stock, and the order size covering the deficit.
// Returns -1 when nothing needs replenishing.
func (m *ResourceOrderManager) nextShortfall() (wareIndex, amount int) {
	for i := 0; i < m.depot.Product().ResourceCount(); i++ {
		deficit := m.storage.RemainingResourceSpace(i) - m.inbound[i]
		if deficit > 0 {
			return i, deficit
		}
	}
	return -1, 0
}

// replenishingStock is the active ordering state: on each throttle interval,
// pick the next resource shortfall and place one order for it.
type replenishingStock struct {
	mgr     *ResourceOrderManager
	delay   time.Duration
	elapsed time.Duration
}

func (s *replenishingStock) OnEnter() {
	s.elapsed = 0
	s.mgr.channel.Status.Publish("replenishing stock")
}

func (s *replenishingStock) OnExit() {}

func (s *replenishingStock) Tick(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.delay {
		return
	}
	s.elapsed = 0
	wareIndex, amount := s.mgr.nextShortfall()
	if wareIndex < 0 {
		return
	}
	s.mgr.PlaceOrderForResource(wareIndex, amount)
}
