package tasking

import (
	"time"

	"github.com/tbochard/freightyard/core/fsm"
	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/model"
)

// AssignmentConfig holds tuning for the assignment scanner.
type AssignmentConfig struct {
	// IdleWorkerScanDelay throttles how often the AssignOrders state scans
	// for an order/worker pairing.
	IdleWorkerScanDelay time.Duration
	// ScansBeforeCancel is the configured retry ceiling for open orders.
	ScansBeforeCancel int
	// LimitSingleSupplierScanning applies the configured ceiling even when a
	// product has only one resource. Off by default: with a single possible
	// supplier there is nothing else to scan for, so cancellation would be
	// pointless and the ceiling is forced to zero (unlimited).
	LimitSingleSupplierScanning bool
}

// EffectiveScanBudget computes the retry ceiling actually handed to orders
// for a depot producing p.
func EffectiveScanBudget(cfg AssignmentConfig, p model.Product) int {
	if cfg.LimitSingleSupplierScanning {
		return cfg.ScansBeforeCancel
	}
	if p.ResourceCount() == 1 {
		return 0
	}
	return cfg.ScansBeforeCancel
}

// AssignmentManager matches open orders to idle workers and supplier depots.
// It alternates between an idle state, held while no open orders exist, and a
// scanning state that runs one discovery attempt per throttle interval.
type AssignmentManager struct {
	cfg       AssignmentConfig
	machine   *fsm.StateMachine
	workers   *WorkerManager
	resources *ResourceOrderManager
	market    Market
	channel   *AssignmentChannel
	cursor    int
	log       logger.Logger
}

// NewAssignmentManager wires the manager to its collaborators and builds its
// state machine, starting idle.
func NewAssignmentManager(cfg AssignmentConfig, workers *WorkerManager, resources *ResourceOrderManager, market Market, channel *AssignmentChannel, log logger.Logger) *AssignmentManager {
	if log == nil {
		log = logger.Nop{}
	}
	m := &AssignmentManager{
		cfg:       cfg,
		workers:   workers,
		resources: resources,
		market:    market,
		channel:   channel,
		log:       log,
	}

	idle := fsm.NewIdle(log)
	idle.Started.Subscribe(func(struct{}) {
		m.channel.Status.Publish("all workers are busy")
	})
	assign := &assignOrders{mgr: m, delay: cfg.IdleWorkerScanDelay}

	m.machine = fsm.New()
	m.machine.AddTransition(idle, assign, resources.HasOpenOrder)
	m.machine.AddTransition(assign, idle, resources.HasNoOpenOrders)
	m.machine.SetState(idle)
	return m
}

// Tick advances the manager's state machine by dt.
func (m *AssignmentManager) Tick(dt time.Duration) { m.machine.Tick(dt) }

// Channel returns the manager's notification channel.
func (m *AssignmentManager) Channel() *AssignmentChannel { return m.channel }

// NextOrder finds an open order using a rotating cursor over the slot array.
// Starting at the cursor it inspects at most OrderCount slots, advancing the
// cursor past every non-open slot, and returns the first open order found
// with the cursor left pointing at it. Repeated scans are therefore
// round-robin fair: every open slot is visited once per full sweep before any
// repeats. Returns nil after a full sweep with no open order.
func (m *AssignmentManager) NextOrder() *Order {
	count := m.resources.OrderCount()
	for i := 0; i < count; i++ {
		order, err := m.resources.OrderByIndex(m.cursor)
		if err != nil {
			m.log.Errorf("order scan aborted: %v", err)
			return nil
		}
		if order.IsOpen() {
			return order
		}
		m.AdvanceCursor()
	}
	return nil
}

// AdvanceCursor moves the discovery cursor to the next slot, wrapping at the
// pool size.
func (m *AssignmentManager) AdvanceCursor() {
	m.cursor = (m.cursor + 1) % m.resources.OrderCount()
}

// CursorIndex returns the discovery cursor's current slot.
func (m *AssignmentManager) CursorIndex() int { return m.cursor }

// scan runs one discovery attempt: pick the next open order, pair it with an
// idle worker and a supplier, and hand the trio off. A missing supplier
// counts against the order's retry budget; a missing worker does not, since
// the order is not being shopped around while the fleet is busy.
func (m *AssignmentManager) scan() {
	order := m.NextOrder()
	if order == nil {
		return
	}

	worker := m.workers.IdleWorker()
	if worker == nil {
		m.channel.Status.Publish("waiting for an idle worker")
		return
	}

	supplier := m.market.FindSupplier(order.Ware())
	if supplier == nil {
		m.log.Debugf("no supplier found for %s, order %s", order.Ware().Code, order.Name())
		if !order.RetryAfterFailedScan() {
			m.log.Infof("order %s canceled after exhausting its scan budget", order.Name())
		}
		m.AdvanceCursor()
		m.channel.ScanComplete.Publish(struct{}{})
		return
	}

	order.AssignActors(supplier.Depot(), worker)
	order.UpdateQuantity()
	if !supplier.RegisterProductOrder(order) {
		// FindSupplier only returns depots that can accept, so this indicates
		// a broken market implementation. Cancel the order so the slot
		// recycles and the home depot's inbound counter is restored; the
		// worker was never dispatched and stays idle.
		m.log.Errorf("supplier %s refused order %s after accepting the match", supplier.Depot().Name(), order.Name())
		order.cancel()
		m.AdvanceCursor()
		return
	}
	worker.Dispatch(order)
	m.AdvanceCursor()
	m.channel.ScanComplete.Publish(struct{}{})
}

// assignOrders is the active scanning state: one discovery attempt per delay
// interval, timed with an elapsed accumulator rather than a blocking wait.
type assignOrders struct {
	mgr     *AssignmentManager
	delay   time.Duration
	elapsed time.Duration
}

func (s *assignOrders) OnEnter() {
	s.elapsed = 0
	s.mgr.channel.Status.Publish("assigning orders")
}

func (s *assignOrders) OnExit() {}

func (s *assignOrders) Tick(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.delay {
		return
	}
	s.elapsed = 0
	s.mgr.scan()
}
