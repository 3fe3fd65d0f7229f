package sim

import (
	"fmt"
	"time"
)

// WareConfig declares one tradable ware.
type WareConfig struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	MinimumOrderAmount int    `json:"minimum_order_amount"`
	StorageSize        int    `json:"storage_size"`
}

// DepotConfig declares one depot of the simulated economy. Product and
// Resources reference ware codes from the world's ware list.
type DepotConfig struct {
	Name                 string   `json:"name"`
	Product              string   `json:"product"`
	Resources            []string `json:"resources"`
	Workers              int      `json:"workers"`
	DockingBays          int      `json:"docking_bays"`
	InitialProductStock  int      `json:"initial_product_stock"`
	InitialResourceStock []int    `json:"initial_resource_stock"`
}

// WorldConfig declares the full simulated economy.
type WorldConfig struct {
	Wares  []WareConfig  `json:"wares"`
	Depots []DepotConfig `json:"depots"`

	TickMs                      int  `json:"tick_ms"`
	TravelTimeMs                int  `json:"travel_time_ms"`
	StockScanDelayMs            int  `json:"stock_scan_delay_ms"`
	IdleWorkerScanDelayMs       int  `json:"idle_worker_scan_delay_ms"`
	ProductionIntervalMs        int  `json:"production_interval_ms"`
	ScansBeforeCancel           int  `json:"scans_before_cancel"`
	LimitSingleSupplierScanning bool `json:"limit_single_supplier_scanning"`
}

// SetDefaults fills zero timing values with usable ones.
func (c *WorldConfig) SetDefaults() {
	if c.TickMs <= 0 {
		c.TickMs = 100
	}
	if c.TravelTimeMs <= 0 {
		c.TravelTimeMs = 2000
	}
	if c.StockScanDelayMs <= 0 {
		c.StockScanDelayMs = 1000
	}
	if c.IdleWorkerScanDelayMs <= 0 {
		c.IdleWorkerScanDelayMs = 500
	}
	if c.ProductionIntervalMs <= 0 {
		c.ProductionIntervalMs = 1500
	}
}

// Validate checks the ware and depot declarations for consistency.
func (c *WorldConfig) Validate() error {
	if len(c.Depots) == 0 {
		return fmt.Errorf("no depots configured")
	}
	wares := make(map[string]WareConfig, len(c.Wares))
	for _, w := range c.Wares {
		if w.Code == "" {
			return fmt.Errorf("ware with empty code")
		}
		if _, dup := wares[w.Code]; dup {
			return fmt.Errorf("duplicate ware code %q", w.Code)
		}
		if w.StorageSize <= 0 {
			return fmt.Errorf("ware %s: storage size must be positive", w.Code)
		}
		wares[w.Code] = w
	}
	names := make(map[string]bool, len(c.Depots))
	for _, d := range c.Depots {
		if d.Name == "" {
			return fmt.Errorf("depot with empty name")
		}
		if names[d.Name] {
			return fmt.Errorf("duplicate depot name %q", d.Name)
		}
		names[d.Name] = true
		if _, ok := wares[d.Product]; !ok {
			return fmt.Errorf("depot %s: unknown product ware %q", d.Name, d.Product)
		}
		for _, r := range d.Resources {
			if _, ok := wares[r]; !ok {
				return fmt.Errorf("depot %s: unknown resource ware %q", d.Name, r)
			}
		}
		if d.Workers <= 0 {
			return fmt.Errorf("depot %s: worker count must be positive", d.Name)
		}
		if d.DockingBays < d.Workers {
			return fmt.Errorf("depot %s: %d workers need at least %d docking bays", d.Name, d.Workers, d.Workers)
		}
		if len(d.InitialResourceStock) > 0 && len(d.InitialResourceStock) != len(d.Resources) {
			return fmt.Errorf("depot %s: initial resource stock must list one value per resource", d.Name)
		}
	}
	return nil
}

// TickInterval returns the simulation step size.
func (c WorldConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// TravelTime returns the one-way haul duration between depots.
func (c WorldConfig) TravelTime() time.Duration {
	return time.Duration(c.TravelTimeMs) * time.Millisecond
}

// StockScanDelay returns the replenishment scan throttle.
func (c WorldConfig) StockScanDelay() time.Duration {
	return time.Duration(c.StockScanDelayMs) * time.Millisecond
}

// IdleWorkerScanDelay returns the assignment scan throttle.
func (c WorldConfig) IdleWorkerScanDelay() time.Duration {
	return time.Duration(c.IdleWorkerScanDelayMs) * time.Millisecond
}

// ProductionInterval returns the time one production cycle takes.
func (c WorldConfig) ProductionInterval() time.Duration {
	return time.Duration(c.ProductionIntervalMs) * time.Millisecond
}
