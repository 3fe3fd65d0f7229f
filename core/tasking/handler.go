package tasking

import (
	"fmt"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/model"
)

// OrderHandler owns a fixed-size pool of Order slots for one depot direction
// (resource intake or product output). The pool never grows or shrinks after
// construction; slots are reset and recycled. Order numbering is a separate
// monotonic counter, independent of slot identity, wrapping 1..999.
type OrderHandler struct {
	channel  *ManagerChannel
	orders   []*Order
	homeName string
	number   int
	log      logger.Logger
}

// NewOrderHandler builds the pool: totalOrders slots, each subscribed once,
// for the lifetime of the handler, to its order's terminal notifications.
func NewOrderHandler(channel *ManagerChannel, home Depot, totalOrders, scansBeforeCancel int, log, orderLog logger.Logger) *OrderHandler {
	if log == nil {
		log = logger.Nop{}
	}
	h := &OrderHandler{
		channel:  channel,
		orders:   make([]*Order, totalOrders),
		homeName: home.Name(),
		log:      log,
	}
	for i := range h.orders {
		o := NewOrder(i, home, scansBeforeCancel, orderLog)
		o.Channel().Completed.Subscribe(h.onOrderCompleted)
		o.Channel().Canceled.Subscribe(h.onOrderCanceled)
		h.orders[i] = o
	}
	return h
}

// OrderAvailable reports whether a free slot exists.
func (h *OrderHandler) OrderAvailable() bool {
	for _, o := range h.orders {
		if o.IsFree() {
			return true
		}
	}
	return false
}

// HasOpenOrder reports whether any order has been placed but not yet
// assigned. The result is recomputed by scanning the pool on every call.
func (h *OrderHandler) HasOpenOrder() bool {
	for _, o := range h.orders {
		if o.IsOpen() {
			return true
		}
	}
	return false
}

// HasNoOpenOrders is the negation of HasOpenOrder, kept as a named predicate
// because state-machine transitions read better with one guard per edge.
func (h *OrderHandler) HasNoOpenOrders() bool { return !h.HasOpenOrder() }

// OpenOrder returns the first open order in slot order, or nil.
func (h *OrderHandler) OpenOrder() *Order {
	for _, o := range h.orders {
		if o.IsOpen() {
			return o
		}
	}
	return nil
}

// OrderCount returns the fixed pool size.
func (h *OrderHandler) OrderCount() int { return len(h.orders) }

// OrdersInUse returns the number of currently open slots.
func (h *OrderHandler) OrdersInUse() int {
	n := 0
	for _, o := range h.orders {
		if o.IsOpen() {
			n++
		}
	}
	return n
}

// Order returns the slot at index. An out-of-range index is a caller
// invariant violation, reported as ErrOrderIndexOutOfRange.
func (h *OrderHandler) Order(index int) (*Order, error) {
	if index < 0 || index >= len(h.orders) {
		return nil, fmt.Errorf("order %d of %d: %w", index, len(h.orders), ErrOrderIndexOutOfRange)
	}
	return h.orders[index], nil
}

func (h *OrderHandler) freeOrder() *Order {
	for _, o := range h.orders {
		if o.IsFree() {
			return o
		}
	}
	return nil
}

// PlaceOrder populates the first free slot for the given ware and quantity
// and returns it. Callers should check OrderAvailable first; when no slot is
// free the failure is logged and nil returned. Placement broadcasts
// order-ready, the active-order state change, and, if this took the last free
// slot, all-free-orders-taken.
func (h *OrderHandler) PlaceOrder(ware model.Ware, wareIndex, quantity int) *Order {
	order := h.freeOrder()
	if order == nil {
		h.log.Warnf("order for %d %s(s) can't be placed: no order slots are available", quantity, ware.Name)
		return nil
	}

	order.Populate(h.orderName(ware, quantity), h.nextOrderNumber(), ware, wareIndex, quantity)

	h.channel.OrderPlaced.Publish(order)
	if !h.OrderAvailable() {
		h.channel.AllFreeOrdersTaken.Publish(struct{}{})
	}
	h.channel.ActiveOrder.Publish(ActiveOrder{OrderID: order.ID(), Active: true})
	return order
}

// nextOrderNumber advances the wrapping counter. 0 is never issued: the
// sequence runs 1..999 and restarts at 1.
func (h *OrderHandler) nextOrderNumber() int {
	h.number++
	if h.number > 999 {
		h.number = 1
	}
	return h.number
}

func (h *OrderHandler) onOrderCanceled(order *Order) {
	h.channel.OrderCanceled.Publish(order)
	h.releaseSlot(order)
}

func (h *OrderHandler) onOrderCompleted(order *Order) {
	h.channel.OrderCompleted.Publish(order)
	h.releaseSlot(order)
}

// releaseSlot re-broadcasts pool-level availability after a slot reset.
func (h *OrderHandler) releaseSlot(order *Order) {
	h.channel.ActiveOrder.Publish(ActiveOrder{OrderID: order.ID(), Active: false})
	h.channel.FreeOrderAvailable.Publish(struct{}{})
	if !h.HasOpenOrder() {
		h.channel.AllOrdersAssigned.Publish(struct{}{})
	}
}

func (h *OrderHandler) orderName(ware model.Ware, quantity int) string {
	return fmt.Sprintf("%s, %d x %s(s)", h.homeName, quantity, ware.Name)
}
