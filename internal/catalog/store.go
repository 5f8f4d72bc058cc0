package catalog

import (
	"errors"
	"fmt"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/models"
)

// AllCategories is the filter value that matches every product.
const AllCategories = "All"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Store is a read-only product list. It is safe for concurrent use because
// nothing mutates it after New returns.
type Store struct {
	products   []models.Product
	byID       map[int]int
	categories []string
}

// New validates products and builds the lookup tables.
func New(products []models.Product) (*Store, error) {
	s := &Store{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	seen := map[string]bool{}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidProduct, p.ID)
		}
		if len(p.Sizes) == 0 {
			return nil, fmt.Errorf("%w: product %d has no sizes", ErrInvalidProduct, p.ID)
		}
		if p.Price < 0 || p.InStock < 0 {
			return nil, fmt.Errorf("%w: product %d has a negative price or stock", ErrInvalidProduct, p.ID)
		}
		if p.Price > cart.MaxPrice {
			return nil, fmt.Errorf("%w: product %d costs more than %d", ErrInvalidProduct, p.ID, cart.MaxPrice)
		}
		p.Sizes = append([]string(nil), p.Sizes...)
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
		if !seen[p.Category] {
			seen[p.Category] = true
			s.categories = append(s.categories, p.Category)
		}
	}
	return s, nil
}

// All returns every product in catalog order.
func (s *Store) All() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get fetches a single product by ID
func (s *Store) Get(id int) (models.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return s.products[i], nil
}

// ByCategory filters by category label. "All" and "" return everything.
func (s *Store) ByCategory(category string) []models.Product {
	if category == "" || category == AllCategories {
		return s.All()
	}
	out := []models.Product{}
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists "All" followed by each category in first-seen order.
func (s *Store) Categories() []string {
	return append([]string{AllCategories}, s.categories...)
}

func (s *Store) Len() int {
	return len(s.products)
}
