package tasking

import (
	"github.com/tbochard/freightyard/core/model"
	"github.com/tbochard/freightyard/internal/eventbus"
)

// Shared in-memory collaborators for the package tests.

var (
	testIron   = model.Ware{Code: "FE", Name: "Iron", MinimumOrderAmount: 5, StorageSize: 100}
	testCopper = model.Ware{Code: "CU", Name: "Copper", MinimumOrderAmount: 5, StorageSize: 50}
	testSteel  = model.Ware{Code: "ST", Name: "Steel", MinimumOrderAmount: 10, StorageSize: 200}
)

func steelProduct() model.Product {
	return model.Product{Ware: testSteel, Resources: []model.Ware{testIron, testCopper}}
}

type fakeStorage struct {
	product       model.Product
	productStock  int
	resourceStock []int
}

func newFakeStorage(p model.Product) *fakeStorage {
	return &fakeStorage{product: p, resourceStock: make([]int, p.ResourceCount())}
}

func (s *fakeStorage) ProductStock() int       { return s.productStock }
func (s *fakeStorage) ProductStorageSize() int { return s.product.Ware.StorageSize }
func (s *fakeStorage) ResourceStock(i int) int { return s.resourceStock[i] }
func (s *fakeStorage) RemainingResourceSpace(i int) int {
	return s.product.Resource(i).StorageSize - s.resourceStock[i]
}
func (s *fakeStorage) DepositResource(i, amount int) { s.resourceStock[i] += amount }
func (s *fakeStorage) WithdrawProduct(amount int)    { s.productStock -= amount }

type fakeDepot struct {
	name    string
	product model.Product
	storage *fakeStorage
	pom     *ProductOrderManager
}

func newFakeDepot(name string, p model.Product) *fakeDepot {
	return &fakeDepot{name: name, product: p, storage: newFakeStorage(p)}
}

func (d *fakeDepot) Name() string           { return d.name }
func (d *fakeDepot) Product() model.Product { return d.product }
func (d *fakeDepot) Storage() Storage       { return d.storage }
func (d *fakeDepot) AvailableProductStock() int {
	if d.pom != nil {
		return d.pom.AvailableStock()
	}
	return d.storage.ProductStock()
}

type fakeBay struct {
	name     string
	reserved Worker
}

func (b *fakeBay) Name() string     { return b.name }
func (b *fakeBay) Reserve(w Worker) { b.reserved = w }
func (b *fakeBay) Release()         { b.reserved = nil }

type fakeDocking struct {
	bays []*fakeBay
}

func newFakeDocking(count int) *fakeDocking {
	d := &fakeDocking{}
	for i := 0; i < count; i++ {
		d.bays = append(d.bays, &fakeBay{name: "bay"})
	}
	return d
}

func (d *fakeDocking) BayCount() int { return len(d.bays) }
func (d *fakeDocking) FreeBay() DockingBay {
	for _, b := range d.bays {
		if b.reserved == nil {
			return b
		}
	}
	return nil
}

type fakeWorker struct {
	name     string
	busy     bool
	order    *Order
	home     *WorkerManager
	assigned *eventbus.Signal[*Order]
	departed *eventbus.Signal[struct{}]
}

func newFakeWorker(name string) *fakeWorker {
	return &fakeWorker{
		name:     name,
		assigned: eventbus.NewSignal[*Order](),
		departed: eventbus.NewSignal[struct{}](),
	}
}

func (w *fakeWorker) Name() string                                   { return w.name }
func (w *fakeWorker) IsIdle() bool                                   { return !w.busy }
func (w *fakeWorker) Attach(home *WorkerManager)                     { w.home = home }
func (w *fakeWorker) OrderAssigned() *eventbus.Signal[*Order]        { return w.assigned }
func (w *fakeWorker) DepartedTowardHome() *eventbus.Signal[struct{}] { return w.departed }

func (w *fakeWorker) Dispatch(o *Order) {
	w.order = o
	w.busy = true
	w.assigned.Publish(o)
}

// finish simulates the full haul: collect at the supplier, depart, deliver at
// home, complete the order.
func (w *fakeWorker) finish() {
	o := w.order
	qty := o.Quantity()
	o.WareWasCollected(qty)
	w.departed.Publish(struct{}{})
	o.WareWasDelivered(qty)
	o.Complete()
	w.order = nil
	w.busy = false
}

type fakeMarket struct {
	pom *ProductOrderManager
}

func (m *fakeMarket) FindSupplier(w model.Ware) *ProductOrderManager {
	if m.pom == nil {
		return nil
	}
	if m.pom.Depot().Product().Ware.Code != w.Code {
		return nil
	}
	if !m.pom.CanAccept() || m.pom.AvailableStock() < w.MinimumOrderAmount {
		return nil
	}
	return m.pom
}

// newSupplier builds a producer depot selling the given ware with the given
// stock on hand.
func newSupplier(name string, ware model.Ware, stock, bays int) (*fakeDepot, *ProductOrderManager) {
	depot := newFakeDepot(name, model.Product{Ware: ware})
	depot.storage.productStock = stock
	pom := NewProductOrderManager(depot, newFakeDocking(bays), NewManagerChannel(), nil)
	depot.pom = pom
	return depot, pom
}
