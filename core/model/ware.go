package model

import "fmt"

// Ware identifies one tradeable good in the economy.
type Ware struct {
	Code string // short display code, e.g. "FE"
	Name string
	// MinimumOrderAmount is the smallest quantity worth hauling. Orders are
	// not placed against suppliers that cannot cover it.
	MinimumOrderAmount int
	// StorageSize is the per-depot storage capacity for this ware.
	StorageSize int
}

// Validate checks that the ware definition is sound.
func (w Ware) Validate() error {
	if w.Code == "" {
		return fmt.Errorf("ware code is required")
	}
	if w.StorageSize <= 0 {
		return fmt.Errorf("ware %s: storage size must be positive", w.Code)
	}
	if w.MinimumOrderAmount < 0 {
		return fmt.Errorf("ware %s: minimum order amount cannot be negative", w.Code)
	}
	return nil
}

// Product is the good a depot manufactures together with the input resources
// its recipe consumes. A depot with an empty recipe is a pure source.
type Product struct {
	Ware      Ware
	Resources []Ware
}

// ResourceCount returns the number of input resources in the recipe.
func (p Product) ResourceCount() int { return len(p.Resources) }

// Resource returns the input ware at index i.
func (p Product) Resource(i int) Ware { return p.Resources[i] }

// ResourceIndex returns the recipe position of the ware with the given code,
// or -1 if the product does not consume it.
func (p Product) ResourceIndex(code string) int {
	for i, r := range p.Resources {
		if r.Code == code {
			return i
		}
	}
	return -1
}

// Validate checks the product and every resource in its recipe.
func (p Product) Validate() error {
	if err := p.Ware.Validate(); err != nil {
		return err
	}
	for _, r := range p.Resources {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
