package services

import (
	"math"
	"sort"
	"strings"

	"dessertlab/internal/models"
	"dessertlab/internal/repositories"
)

// Sort orders for the catalog view.
const (
	SortByName      = "name"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
)

// DefaultPageSize is the catalog page size.
const DefaultPageSize = 9

// CatalogQuery describes one catalog view request.
type CatalogQuery struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// CatalogPage is one displayed page of the filtered, sorted catalog.
type CatalogPage struct {
	Products     []models.Product `json:"products"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	TotalMatched int              `json:"totalMatched"`
	TotalInStore int              `json:"totalInStore"`
}

// ProductService handles catalog browsing and admin product management.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Browse fetches the full catalog, then applies in order: case-insensitive
// substring filter over name and description, sort, and fixed-size
// pagination. A page index past the end of the filtered set resets to 1.
// This is client-side pagination over a fully materialized set; it is only
// acceptable because the catalog is small.
func (s *ProductService) Browse(q CatalogQuery) (*CatalogPage, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(q.Search)
	var filtered []models.Product
	for _, p := range all {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			filtered = append(filtered, p)
		}
	}

	switch q.Sort {
	case SortByName:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	case SortByPriceLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price < filtered[j].Price
		})
	case SortByPriceHigh:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price > filtered[j].Price
		})
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int(math.Ceil(float64(len(filtered)) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 || page > totalPages {
		// The filtered set no longer reaches this page's start offset.
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return &CatalogPage{
		Products:     filtered[start:end],
		Page:         page,
		TotalPages:   totalPages,
		TotalMatched: len(filtered),
		TotalInStore: len(all),
	}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct adds a product to the catalog (admin).
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product (admin).
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct removes a product from the catalog (admin).
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
