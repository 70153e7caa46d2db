package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pedidoz-backend/pkg/types"
)

// Product is a catalog entry users can order by free text. Reference data:
// created and updated out of band, read-only to the conversation core.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string           `gorm:"column:sku;not null;uniqueIndex"`
	Name         string           `gorm:"column:name;not null"`
	ShortName    string           `gorm:"column:short_name;not null"`
	SearchTerms  types.StringList `gorm:"column:search_terms;type:jsonb;not null"`
	Units        types.StringList `gorm:"column:units;type:jsonb;not null"`
	UnitCodes    types.StringMap  `gorm:"column:unit_codes;type:jsonb"`
	FacilityCode string           `gorm:"column:facility_code;not null;default:''"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
