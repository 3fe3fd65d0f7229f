package tasking

import "github.com/tbochard/freightyard/core/logger"

// WorkerManager is the bounded pool of workers belonging to one depot. The
// capacity equals the depot's docking-bay count: more workers than bays could
// never load simultaneously.
type WorkerManager struct {
	name    string
	channel *WorkerPoolChannel
	docking DockingModule
	workers []Worker
	max     int
	log     logger.Logger
}

// NewWorkerManager creates an empty pool capped at the docking module's bay
// count.
func NewWorkerManager(name string, channel *WorkerPoolChannel, docking DockingModule, log logger.Logger) *WorkerManager {
	if log == nil {
		log = logger.Nop{}
	}
	return &WorkerManager{
		name:    name,
		channel: channel,
		docking: docking,
		max:     docking.BayCount(),
		log:     log,
	}
}

// AddWorker registers a worker with the pool. At capacity the worker is
// rejected with a logged warning and no side effects. Otherwise the worker is
// attached, its order-assigned signal is subscribed to keep the idle-count
// broadcast fresh, and the updated idle count is broadcast.
func (m *WorkerManager) AddWorker(w Worker) {
	if len(m.workers) >= m.max {
		m.log.Warnf("depot %s already has the maximum number of workers (%d)", m.name, m.max)
		return
	}
	m.workers = append(m.workers, w)
	w.Attach(m)
	w.OrderAssigned().Subscribe(func(*Order) {
		m.channel.IdleCount.Publish(m.IdleWorkers())
	})
	m.channel.IdleCount.Publish(m.IdleWorkers())
}

// IdleWorker returns the first idle worker in insertion order, or nil.
func (m *WorkerManager) IdleWorker() Worker {
	for _, w := range m.workers {
		if w.IsIdle() {
			return w
		}
	}
	return nil
}

// HasRoom reports whether the pool is below capacity.
func (m *WorkerManager) HasRoom() bool { return len(m.workers) < m.max }

// TotalWorkers returns the pool size, idle and busy alike.
func (m *WorkerManager) TotalWorkers() int { return len(m.workers) }

// IdleWorkers recounts the idle workers. Busy-ness is owned by the workers
// themselves, so the count is always recomputed rather than cached.
func (m *WorkerManager) IdleWorkers() int {
	n := 0
	for _, w := range m.workers {
		if w.IsIdle() {
			n++
		}
	}
	return n
}

// Channel returns the pool's notification channel.
func (m *WorkerManager) Channel() *WorkerPoolChannel { return m.channel }
