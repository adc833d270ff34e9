// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service handles cart persistence per session. The cart itself is the
// pure aggregator in cart.go; this layer loads it from Redis, applies
// an operation and writes it back.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest represents a set-quantity request. Quantity 0
// removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// Get retrieves the cart for a session, returning an empty cart when
// none is stored.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.redisClient.Get(ctx, s.cartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// AddItem validates the product against the catalog and adds it to the
// session cart. The catalog price is captured at add time.
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*Cart, error) {
	var prod product.Product
	err := s.db.Where("id = ? AND is_available = ?", req.ProductID, true).First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found or unavailable")
		}
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(prod.ID, prod.Name, prod.Price, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of an existing line. Quantity 0
// removes the line; a missing line is an error so the client learns the
// cart is out of sync.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := c.find(productID)
	if line == nil {
		return nil, fmt.Errorf("item not in cart")
	}

	if quantity == 0 {
		c.RemoveItem(productID)
	} else {
		line.Quantity = quantity
		c.touch()
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementItem adjusts a line quantity by +1
func (s *Service) IncrementItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.adjust(ctx, sessionID, func(c *Cart) { c.IncrementItem(productID) })
}

// DecrementItem adjusts a line quantity by -1, removing the line at 1
func (s *Service) DecrementItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.adjust(ctx, sessionID, func(c *Cart) { c.DecrementItem(productID) })
}

// RemoveItem deletes a line from the session cart
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.adjust(ctx, sessionID, func(c *Cart) { c.RemoveItem(productID) })
}

// Clear empties the session cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, s.cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Snapshot returns the immutable checkout order for the session cart
func (s *Service) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

func (s *Service) adjust(ctx context.Context, sessionID string, op func(*Cart)) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	op(c)

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, s.cartKey(sessionID), data, s.config.Redis.CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

func (s *Service) cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
