// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"

	"github.com/your-org/foodorder-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist
var ErrNotFound = errors.New("product not found")

// Service handles menu catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents create product request
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       *int64 `json:"price" binding:"required,min=0"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// UpdateProductRequest represents update product request
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
	IsAvailable *bool   `json:"is_available"`
}

// List retrieves menu items, newest first. When includeUnavailable is
// false, items marked unavailable are filtered out.
func (s *Service) List(includeUnavailable bool) ([]Product, error) {
	var products []Product
	query := s.db.Order("created_at DESC")
	if !includeUnavailable {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single menu item by id
func (s *Service) Get(id string) (*Product, error) {
	var prod Product
	err := s.db.Where("id = ?", id).First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &prod, nil
}

// Create inserts a new menu item
func (s *Service) Create(req *CreateProductRequest) (*Product, error) {
	prod := Product{
		Name:        req.Name,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		IsAvailable: true,
	}
	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &prod, nil
}

// Update applies partial changes to a menu item
func (s *Service) Update(id string, req *UpdateProductRequest) (*Product, error) {
	prod, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) == 0 {
		return prod, nil
	}

	if err := s.db.Model(prod).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.Get(id)
}

// Delete soft-deletes a menu item
func (s *Service) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
