package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the product snapshot taken when the line was added
// to the cart; the catalog may change later without affecting placed orders.
type OrderLineItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID    *uuid.UUID `gorm:"column:product_id;type:uuid"`
	SKU          string     `gorm:"column:sku;not null"`
	Name         string     `gorm:"column:name;not null"`
	ShortName    string     `gorm:"column:short_name;not null"`
	Qty          int        `gorm:"column:qty;not null"`
	Unit         string     `gorm:"column:unit;not null"`
	UnitCode     *string    `gorm:"column:unit_code"`
	FacilityCode string     `gorm:"column:facility_code;not null;default:''"`
	Position     int        `gorm:"column:position;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
