package sim

import "github.com/tbochard/freightyard/core/model"

// Storage is the in-memory stock ledger of one depot: the product it sells
// and the resources its recipe consumes.
type Storage struct {
	product       model.Product
	productStock  int
	resourceStock []int
}

// NewStorage creates a ledger for the given recipe with the given opening
// stocks. A nil or short resourceStock leaves the missing entries at zero.
func NewStorage(p model.Product, productStock int, resourceStock []int) *Storage {
	rs := make([]int, p.ResourceCount())
	copy(rs, resourceStock)
	return &Storage{product: p, productStock: productStock, resourceStock: rs}
}

// ProductStock returns the product units on hand.
func (s *Storage) ProductStock() int { return s.productStock }

// ProductStorageSize returns the product storage capacity.
func (s *Storage) ProductStorageSize() int { return s.product.Ware.StorageSize }

// ResourceStock returns the units on hand for one recipe resource.
func (s *Storage) ResourceStock(wareIndex int) int { return s.resourceStock[wareIndex] }

// RemainingResourceSpace returns the free storage for one recipe resource.
func (s *Storage) RemainingResourceSpace(wareIndex int) int {
	return s.product.Resource(wareIndex).StorageSize - s.resourceStock[wareIndex]
}

// DepositResource books delivered units into resource storage.
func (s *Storage) DepositResource(wareIndex, amount int) {
	s.resourceStock[wareIndex] += amount
}

// WithdrawProduct books collected units out of product storage.
func (s *Storage) WithdrawProduct(amount int) {
	s.productStock -= amount
}

// ConsumeResources takes one unit of every recipe resource for a production
// cycle. Reports false, changing nothing, when any resource is empty.
func (s *Storage) ConsumeResources() bool {
	for _, stock := range s.resourceStock {
		if stock < 1 {
			return false
		}
	}
	for i := range s.resourceStock {
		s.resourceStock[i]--
	}
	return true
}

// DepositProduct books freshly produced units, capped at the storage size.
func (s *Storage) DepositProduct(amount int) {
	s.productStock += amount
	if limit := s.ProductStorageSize(); s.productStock > limit {
		s.productStock = limit
	}
}

// HasProductSpace reports whether another produced unit fits.
func (s *Storage) HasProductSpace() bool {
	return s.productStock < s.ProductStorageSize()
}
