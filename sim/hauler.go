package sim

import (
	"time"

	"github.com/google/uuid"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/tasking"
	"github.com/tbochard/freightyard/internal/eventbus"
)

type haulerPhase int

const (
	haulerIdle haulerPhase = iota
	haulerOutbound
	haulerReturning
)

// Hauler is a simulated worker that drives to a supplier, loads the ordered
// ware, and hauls it home. Both legs take the configured travel time; loading
// and unloading are instantaneous.
type Hauler struct {
	id     uuid.UUID
	name   string
	travel time.Duration

	phase   haulerPhase
	elapsed time.Duration
	order   *tasking.Order
	carried int

	home     *tasking.WorkerManager
	assigned *eventbus.Signal[*tasking.Order]
	departed *eventbus.Signal[struct{}]
	log      logger.Logger
}

// NewHauler creates an idle hauler.
func NewHauler(name string, travel time.Duration, log logger.Logger) *Hauler {
	if log == nil {
		log = logger.Nop{}
	}
	return &Hauler{
		id:       uuid.New(),
		name:     name,
		travel:   travel,
		assigned: eventbus.NewSignal[*tasking.Order](),
		departed: eventbus.NewSignal[struct{}](),
		log:      log,
	}
}

// ID returns the hauler's unique identifier.
func (h *Hauler) ID() string { return h.id.String() }

// Name returns the hauler's display name.
func (h *Hauler) Name() string { return h.name }

// IsIdle reports whether the hauler can take an order.
func (h *Hauler) IsIdle() bool { return h.phase == haulerIdle }

// Attach remembers the pool the hauler belongs to.
func (h *Hauler) Attach(home *tasking.WorkerManager) { h.home = home }

// OrderAssigned signals every order the hauler accepts.
func (h *Hauler) OrderAssigned() *eventbus.Signal[*tasking.Order] { return h.assigned }

// DepartedTowardHome signals the start of the return leg.
func (h *Hauler) DepartedTowardHome() *eventbus.Signal[struct{}] { return h.departed }

// Dispatch sends the hauler out for the order.
func (h *Hauler) Dispatch(order *tasking.Order) {
	h.order = order
	h.phase = haulerOutbound
	h.elapsed = 0
	h.log.Debugf("%s: heading to %s for %s", h.name, order.TargetDepot().Name(), order.Name())
	h.assigned.Publish(order)
}

// Tick advances the current haul by dt.
func (h *Hauler) Tick(dt time.Duration) {
	switch h.phase {
	case haulerOutbound:
		h.elapsed += dt
		if h.elapsed < h.travel {
			return
		}
		h.carried = h.order.Quantity()
		h.order.WareWasCollected(h.carried)
		h.phase = haulerReturning
		h.elapsed = 0
		h.log.Debugf("%s: loaded %d %s(s), heading home", h.name, h.carried, h.order.Ware().Name)
		h.departed.Publish(struct{}{})
	case haulerReturning:
		h.elapsed += dt
		if h.elapsed < h.travel {
			return
		}
		order := h.order
		h.order = nil
		h.phase = haulerIdle
		h.elapsed = 0
		order.WareWasDelivered(h.carried)
		h.carried = 0
		order.Complete()
		h.log.Debugf("%s: delivered %s", h.name, order.Name())
		if h.home != nil {
			h.home.Channel().IdleCount.Publish(h.home.IdleWorkers())
		}
	}
}
