package tasking

import (
	"testing"
	"time"

	"github.com/tbochard/freightyard/core/model"
)

// assignmentRig wires a consumer depot with a single-resource recipe, a worker
// pool, and an assignment manager scanning the given market.
type assignmentRig struct {
	depot   *fakeDepot
	rom     *ResourceOrderManager
	workers *WorkerManager
	am      *AssignmentManager
}

func newAssignmentRig(market Market, totalOrders, scansBeforeCancel int) *assignmentRig {
	depot := newFakeDepot("mill", model.Product{Ware: testSteel, Resources: []model.Ware{testIron}})
	rom := NewResourceOrderManager(depot, NewManagerChannel(), ResourceConfig{StockScanDelay: time.Second}, totalOrders, scansBeforeCancel, nil, nil, nil)
	workers := NewWorkerManager("mill haulers", NewWorkerPoolChannel(), newFakeDocking(totalOrders), nil)
	cfg := AssignmentConfig{IdleWorkerScanDelay: time.Second, ScansBeforeCancel: scansBeforeCancel}
	am := NewAssignmentManager(cfg, workers, rom, market, NewAssignmentChannel(), nil)
	return &assignmentRig{depot: depot, rom: rom, workers: workers, am: am}
}

func TestRoundRobinDiscovery(t *testing.T) {
	rig := newAssignmentRig(&fakeMarket{}, 5, 0)
	for i := 0; i < 5; i++ {
		if rig.rom.PlaceOrderForResource(0, 4) == nil {
			t.Fatalf("placement %d failed", i)
		}
	}
	for _, idx := range []int{1, 3} {
		order, err := rig.rom.OrderByIndex(idx)
		if err != nil {
			t.Fatalf("order %d: %v", idx, err)
		}
		order.Complete()
	}

	// Open slots are {0, 2, 4}: repeated discovery must visit each of them
	// once per sweep before repeating any.
	want := []int{1, 3, 5, 1, 3, 5, 1, 3, 5}
	for i, wantNumber := range want {
		order := rig.am.NextOrder()
		if order == nil {
			t.Fatalf("scan %d found no order", i)
		}
		if order.Number() != wantNumber {
			t.Fatalf("scan %d: expected order number %d, got %d", i, wantNumber, order.Number())
		}
		rig.am.AdvanceCursor()
	}
}

func TestNextOrderStopsAfterFullSweep(t *testing.T) {
	rig := newAssignmentRig(&fakeMarket{}, 3, 0)
	if rig.am.NextOrder() != nil {
		t.Fatalf("an empty pool must yield no order")
	}
	if rig.am.CursorIndex() != 0 {
		t.Fatalf("a full sweep wraps the cursor back, got %d", rig.am.CursorIndex())
	}
}

func TestScanAssignsOrder(t *testing.T) {
	supplierDepot, supplier := newSupplier("mine", testIron, 50, 1)
	rig := newAssignmentRig(&fakeMarket{pom: supplier}, 3, 0)
	worker := newFakeWorker("w1")
	rig.workers.AddWorker(worker)

	var scans int
	rig.am.Channel().ScanComplete.Subscribe(func(struct{}) { scans++ })

	order := rig.rom.PlaceOrderForResource(0, 20)
	rig.am.Tick(time.Second) // idle -> assigning
	rig.am.Tick(time.Second) // first scan

	if !order.IsAssigned() {
		t.Fatalf("the scan must assign the order, status %s", order.Status())
	}
	if order.TargetDepot() != Depot(supplierDepot) {
		t.Fatalf("unexpected target depot")
	}
	if order.Worker() != Worker(worker) || !worker.busy {
		t.Fatalf("the scan must dispatch the idle worker")
	}
	if order.PickupBay() == nil {
		t.Fatalf("the supplier must hand the order a pickup bay")
	}
	if supplier.Reserved() != 20 {
		t.Fatalf("expected 20 reserved at the supplier, got %d", supplier.Reserved())
	}
	if scans != 1 {
		t.Fatalf("expected 1 scan completion, got %d", scans)
	}
	if rig.am.CursorIndex() != 1 {
		t.Fatalf("the cursor must move past the assigned order, got %d", rig.am.CursorIndex())
	}

	// The haul runs its course: stock crosses depots and the slot recycles.
	worker.finish()
	if supplier.Reserved() != 0 || supplierDepot.storage.ProductStock() != 30 {
		t.Fatalf("pickup accounting: reserved=%d stock=%d", supplier.Reserved(), supplierDepot.storage.ProductStock())
	}
	if rig.depot.storage.ResourceStock(0) != 20 || rig.rom.Inbound(0) != 0 {
		t.Fatalf("delivery accounting: stock=%d inbound=%d", rig.depot.storage.ResourceStock(0), rig.rom.Inbound(0))
	}
	if !order.IsFree() {
		t.Fatalf("a completed order must be recycled")
	}
}

func TestScanWaitsForIdleWorker(t *testing.T) {
	_, supplier := newSupplier("mine", testIron, 50, 1)
	rig := newAssignmentRig(&fakeMarket{pom: supplier}, 3, 2)

	var statuses []string
	rig.am.Channel().Status.Subscribe(func(s string) { statuses = append(statuses, s) })

	order := rig.rom.PlaceOrderForResource(0, 20)
	rig.am.Tick(time.Second)
	rig.am.Tick(time.Second)

	if !order.IsOpen() {
		t.Fatalf("no idle worker means no assignment")
	}
	if order.FailedScans() != 0 {
		t.Fatalf("waiting for a worker must not burn the retry budget, got %d", order.FailedScans())
	}
	found := false
	for _, s := range statuses {
		if s == "waiting for an idle worker" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the waiting status broadcast, got %v", statuses)
	}
}

func TestScanWithoutSupplierCancelsAfterBudget(t *testing.T) {
	rig := newAssignmentRig(&fakeMarket{}, 3, 3)
	rig.workers.AddWorker(newFakeWorker("w1"))

	order := rig.rom.PlaceOrderForResource(0, 20)
	if rig.rom.Inbound(0) != 20 {
		t.Fatalf("expected inbound 20, got %d", rig.rom.Inbound(0))
	}

	rig.am.Tick(time.Second) // idle -> assigning
	rig.am.Tick(time.Second)
	rig.am.Tick(time.Second)
	if !order.IsOpen() || order.FailedScans() != 2 {
		t.Fatalf("two failed scans must leave the order open, scans=%d", order.FailedScans())
	}

	// The third failed scan hits the ceiling.
	rig.am.Tick(time.Second)
	if !order.IsFree() {
		t.Fatalf("the order must cancel on the final scan, status %s", order.Status())
	}
	if rig.rom.Inbound(0) != 0 {
		t.Fatalf("cancellation must restore the inbound counter, got %d", rig.rom.Inbound(0))
	}
}

// rubberStampMarket hands out its manager without checking acceptance, the
// way a buggy market implementation might.
type rubberStampMarket struct {
	pom *ProductOrderManager
}

func (m *rubberStampMarket) FindSupplier(model.Ware) *ProductOrderManager { return m.pom }

func TestScanRecoversFromRefusedRegistration(t *testing.T) {
	supplier := newFakeDepot("mine", model.Product{Ware: testIron})
	supplier.storage.productStock = 50
	docking := newFakeDocking(1)
	pom := NewProductOrderManager(supplier, docking, NewManagerChannel(), nil)
	supplier.pom = pom
	// The only bay is busy with traffic the manager does not control, so
	// registration refuses the order the market just matched.
	docking.bays[0].Reserve(newFakeWorker("squatter"))

	rig := newAssignmentRig(&rubberStampMarket{pom: pom}, 3, 0)
	worker := newFakeWorker("w1")
	rig.workers.AddWorker(worker)

	order := rig.rom.PlaceOrderForResource(0, 20)
	if rig.rom.Inbound(0) != 20 {
		t.Fatalf("expected inbound 20, got %d", rig.rom.Inbound(0))
	}

	rig.am.Tick(time.Second) // idle -> assigning
	rig.am.Tick(time.Second) // scan hits the refusal

	if !order.IsFree() {
		t.Fatalf("a refused registration must cancel the order, status %s", order.Status())
	}
	if order.Worker() != nil || order.TargetDepot() != nil {
		t.Fatalf("cancellation must clear the actors")
	}
	if rig.rom.Inbound(0) != 0 {
		t.Fatalf("cancellation must restore the inbound counter, got %d", rig.rom.Inbound(0))
	}
	if !worker.IsIdle() {
		t.Fatalf("the worker was never dispatched and must stay idle")
	}
}

func TestAssignmentStateFollowsOpenOrders(t *testing.T) {
	_, supplier := newSupplier("mine", testIron, 50, 1)
	rig := newAssignmentRig(&fakeMarket{pom: supplier}, 3, 0)
	worker := newFakeWorker("w1")
	rig.workers.AddWorker(worker)

	var statuses []string
	rig.am.Channel().Status.Subscribe(func(s string) { statuses = append(statuses, s) })

	rig.rom.PlaceOrderForResource(0, 20)
	rig.am.Tick(time.Second)
	if len(statuses) == 0 || statuses[0] != "assigning orders" {
		t.Fatalf("an open order must wake the scanner, got %v", statuses)
	}

	rig.am.Tick(time.Second) // assigns the only open order
	worker.finish()
	rig.am.Tick(time.Second) // assigning -> idle
	if statuses[len(statuses)-1] != "all workers are busy" {
		t.Fatalf("no open orders must park the scanner, got %v", statuses)
	}
}

func TestThreeOrdersTwoWorkers(t *testing.T) {
	supplierDepot, supplier := newSupplier("mine", testIron, 100, 3)
	rig := newAssignmentRig(&fakeMarket{pom: supplier}, 5, 0)
	w1 := newFakeWorker("w1")
	w2 := newFakeWorker("w2")
	rig.workers.AddWorker(w1)
	rig.workers.AddWorker(w2)

	for i := 0; i < 3; i++ {
		if rig.rom.PlaceOrderForResource(0, 10) == nil {
			t.Fatalf("placement %d failed", i)
		}
	}
	if !rig.rom.HasOpenOrder() {
		t.Fatalf("three placed orders must leave open work")
	}

	rig.am.Tick(time.Second) // idle -> assigning
	rig.am.Tick(time.Second) // assigns slot 0 to w1
	rig.am.Tick(time.Second) // assigns slot 1 to w2
	if w1.order == nil || w1.order.ID() != 0 {
		t.Fatalf("expected slot 0 on the first worker")
	}
	if w2.order == nil || w2.order.ID() != 1 {
		t.Fatalf("expected slot 1 on the second worker")
	}

	// Both workers busy: the third order stays open until one frees up.
	rig.am.Tick(time.Second)
	if !rig.rom.HasOpenOrder() {
		t.Fatalf("the third order must remain open while all workers are busy")
	}

	w1.finish()
	rig.am.Tick(time.Second) // assigns slot 2 to the freed worker
	if w1.order == nil || w1.order.ID() != 2 {
		t.Fatalf("expected the freed worker to take slot 2")
	}
	w2.finish()
	w1.finish()

	if !rig.rom.HasNoOpenOrders() {
		t.Fatalf("completing every haul must empty the pool")
	}
	if rig.rom.Inbound(0) != 0 || supplier.Reserved() != 0 {
		t.Fatalf("counters must return to zero: inbound=%d reserved=%d", rig.rom.Inbound(0), supplier.Reserved())
	}
	if supplierDepot.storage.ProductStock() != 70 || rig.depot.storage.ResourceStock(0) != 30 {
		t.Fatalf("stock accounting: supplier=%d consumer=%d", supplierDepot.storage.ProductStock(), rig.depot.storage.ResourceStock(0))
	}
}

func TestEffectiveScanBudget(t *testing.T) {
	single := model.Product{Ware: testSteel, Resources: []model.Ware{testIron}}
	multi := steelProduct()

	cfg := AssignmentConfig{ScansBeforeCancel: 5}
	if got := EffectiveScanBudget(cfg, single); got != 0 {
		t.Fatalf("a single-supplier recipe defaults to unlimited retries, got %d", got)
	}
	if got := EffectiveScanBudget(cfg, multi); got != 5 {
		t.Fatalf("a multi-resource recipe keeps the configured ceiling, got %d", got)
	}

	cfg.LimitSingleSupplierScanning = true
	if got := EffectiveScanBudget(cfg, single); got != 5 {
		t.Fatalf("the limit flag applies the ceiling regardless of recipe, got %d", got)
	}
}
