package sim

import (
	"fmt"

	"github.com/tbochard/freightyard/core/tasking"
)

// DockingBay is one loading slot at a depot, held by at most one worker.
type DockingBay struct {
	name   string
	holder tasking.Worker
}

// Name returns the bay's display name.
func (b *DockingBay) Name() string { return b.name }

// Reserve hands the bay to a worker.
func (b *DockingBay) Reserve(w tasking.Worker) { b.holder = w }

// Release frees the bay.
func (b *DockingBay) Release() { b.holder = nil }

// IsFree reports whether no worker holds the bay.
func (b *DockingBay) IsFree() bool { return b.holder == nil }

// Holder returns the worker holding the bay, or nil.
func (b *DockingBay) Holder() tasking.Worker { return b.holder }

// DockingModule groups a depot's bays.
type DockingModule struct {
	bays []*DockingBay
}

// NewDockingModule creates count bays named after the depot.
func NewDockingModule(depot string, count int) *DockingModule {
	d := &DockingModule{}
	for i := 0; i < count; i++ {
		d.bays = append(d.bays, &DockingBay{name: fmt.Sprintf("%s bay %d", depot, i+1)})
	}
	return d
}

// BayCount returns the number of bays.
func (d *DockingModule) BayCount() int { return len(d.bays) }

// FreeBay returns the first unheld bay. The nil return is the untyped
// interface nil so callers can compare directly.
func (d *DockingModule) FreeBay() tasking.DockingBay {
	for _, b := range d.bays {
		if b.IsFree() {
			return b
		}
	}
	return nil
}
