package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Description    string         `gorm:"column:description" json:"description"`
	PriceCents     int64          `gorm:"not null;column:price_cents" json:"price_cents"`
	Currency       string         `gorm:"not null;default:'USD';column:currency" json:"currency"`
	Category       string         `gorm:"index;column:category" json:"category"`
	ImageBucketKey string         `gorm:"column:image_bucket_key" json:"image_bucket_key"`
	ImageURL       string         `gorm:"column:image_url" json:"image_url"`
	Attributes     datatypes.JSON `gorm:"column:attributes" json:"attributes,omitempty"`
	Active         bool           `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
