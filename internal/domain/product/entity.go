// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a menu item
type Product struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Price       int64          `gorm:"not null" json:"price"` // Price in smallest currency unit
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Description string         `gorm:"type:text" json:"description"`
	IsAvailable bool           `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate hook assigns a UUID primary key when none is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
