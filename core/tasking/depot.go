package tasking

import (
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// Storage is the stock-keeping side of a depot. Product and resource stock are
// tracked separately; resource slots are addressed by recipe index.
type Storage interface {
	ProductStock() int
	ProductStorageSize() int
	ResourceStock(index int) int
	RemainingResourceSpace(index int) int
	DepositResource(index, amount int)
	WithdrawProduct(amount int)
}

// Depot is a production facility participating in the order economy.
type Depot interface {
	Name() string
	Product() model.Product
	Storage() Storage
	// AvailableProductStock is the quantity actually for sale: raw product
	// stock minus stock already reserved against outstanding orders.
	AvailableProductStock() int
}

// DockingBay is one loading berth at a depot.
type DockingBay interface {
	Name() string
	Reserve(w Worker)
	Release()
}

// DockingModule owns a depot's docking bays.
type DockingModule interface {
	BayCount() int
	// FreeBay returns an unreserved bay, or nil when all bays are taken.
	// Querying does not reserve the bay.
	FreeBay() DockingBay
}

// Worker is a mobile hauler dispatched against at most one order at a time.
// Idle/busy state is owned by the worker itself; pools never duplicate it.
type Worker interface {
	Name() string
	IsIdle() bool
	// Attach hands the worker a back-reference to the pool that owns it.
	Attach(home *WorkerManager)
	// Dispatch starts work on an order whose actors are already assigned.
	Dispatch(o *Order)
	// OrderAssigned fires when the worker accepts an order.
	OrderAssigned() *eventbus.Signal[*Order]
	// DepartedTowardHome fires when the worker leaves the pickup depot.
	DepartedTowardHome() *eventbus.Signal[struct{}]
}

// Market locates a producer for a ware. FindSupplier returns nil when no
// depot currently offers enough stock for sale and room to take the order.
type Market interface {
	FindSupplier(w model.Ware) *ProductOrderManager
}
