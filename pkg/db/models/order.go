package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// Order is a confirmed cart persisted for downstream fulfillment.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WaID         string            `gorm:"column:wa_id;not null;index"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'received'"`
	OrderNumber  int64             `gorm:"column:order_number;autoIncrement;uniqueIndex"`
	FacilityCode string            `gorm:"column:facility_code;not null;default:''"`
	Items        []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
