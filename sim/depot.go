package sim

import (
	"fmt"
	"time"

	"github.com/tbochard/freightyard/core/logger"
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/core/tasking"
)

// Depot is one node of the simulated economy. It produces its ware from the
// recipe's resources, sells the product to other depots, and sends its own
// haulers out to buy what the recipe consumes.
type Depot struct {
	name    string
	product model.Product
	storage *Storage
	docking *DockingModule
	haulers []*Hauler

	consumer *tasking.ManagerChannel
	producer *tasking.ManagerChannel
	workers  *tasking.WorkerManager
	rom      *tasking.ResourceOrderManager
	pom      *tasking.ProductOrderManager
	am       *tasking.AssignmentManager

	production time.Duration
	cycle      time.Duration

	log logger.Logger
}

// NewDepot wires a depot from its config. The market is consulted by the
// assignment scanner to find suppliers; passing the world the depot lives in
// is the usual choice.
func NewDepot(cfg DepotConfig, world WorldConfig, product model.Product, market tasking.Market, log logger.Logger) *Depot {
	if log == nil {
		log = logger.Nop{}
	}
	d := &Depot{
		name:       cfg.Name,
		product:    product,
		storage:    NewStorage(product, cfg.InitialProductStock, cfg.InitialResourceStock),
		docking:    NewDockingModule(cfg.Name, cfg.DockingBays),
		consumer:   tasking.NewManagerChannel(),
		producer:   tasking.NewManagerChannel(),
		production: world.ProductionInterval(),
		log:        log,
	}

	assignCfg := tasking.AssignmentConfig{
		IdleWorkerScanDelay:         world.IdleWorkerScanDelay(),
		ScansBeforeCancel:           world.ScansBeforeCancel,
		LimitSingleSupplierScanning: world.LimitSingleSupplierScanning,
	}
	budget := tasking.EffectiveScanBudget(assignCfg, product)

	d.pom = tasking.NewProductOrderManager(d, d.docking, d.producer, log)
	d.rom = tasking.NewResourceOrderManager(d, d.consumer,
		tasking.ResourceConfig{StockScanDelay: world.StockScanDelay()},
		cfg.Workers, budget, log, log, log)

	d.workers = tasking.NewWorkerManager(cfg.Name+" haulers", tasking.NewWorkerPoolChannel(), d.docking, log)
	for i := 0; i < cfg.Workers; i++ {
		h := NewHauler(fmt.Sprintf("%s hauler %d", cfg.Name, i+1), world.TravelTime(), log)
		d.haulers = append(d.haulers, h)
		d.workers.AddWorker(h)
	}

	d.am = tasking.NewAssignmentManager(assignCfg, d.workers, d.rom, market, tasking.NewAssignmentChannel(), log)
	return d
}

// Name returns the depot's display name.
func (d *Depot) Name() string { return d.name }

// Product returns the depot's recipe.
func (d *Depot) Product() model.Product { return d.product }

// Storage returns the depot's stock ledger.
func (d *Depot) Storage() tasking.Storage { return d.storage }

// AvailableProductStock returns the product units not yet promised to other
// depots.
func (d *Depot) AvailableProductStock() int { return d.pom.AvailableStock() }

// ProductOrders returns the producer-side manager other depots order from.
func (d *Depot) ProductOrders() *tasking.ProductOrderManager { return d.pom }

// ResourceOrders returns the consumer-side manager.
func (d *Depot) ResourceOrders() *tasking.ResourceOrderManager { return d.rom }

// Workers returns the depot's hauler pool.
func (d *Depot) Workers() *tasking.WorkerManager { return d.workers }

// Assignment returns the depot's order assignment manager.
func (d *Depot) Assignment() *tasking.AssignmentManager { return d.am }

// ConsumerChannel returns the channel the resource manager broadcasts on.
func (d *Depot) ConsumerChannel() *tasking.ManagerChannel { return d.consumer }

// ProducerChannel returns the channel the product manager broadcasts on.
func (d *Depot) ProducerChannel() *tasking.ManagerChannel { return d.producer }

// Tick advances the depot by dt: one production step, the replenishment and
// assignment managers, then the haulers on the road.
func (d *Depot) Tick(dt time.Duration) {
	d.produce(dt)
	d.rom.Tick(dt)
	d.am.Tick(dt)
	for _, h := range d.haulers {
		h.Tick(dt)
	}
}

// produce converts one unit of every recipe resource into one product unit
// per production interval. Depots without resources (raw producers) generate
// the product from nothing.
func (d *Depot) produce(dt time.Duration) {
	if d.production <= 0 {
		return
	}
	d.cycle += dt
	if d.cycle < d.production {
		return
	}
	d.cycle = 0
	if !d.storage.HasProductSpace() {
		return
	}
	if d.product.ResourceCount() > 0 && !d.storage.ConsumeResources() {
		return
	}
	d.storage.DepositProduct(1)
}
