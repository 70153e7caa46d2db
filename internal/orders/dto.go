package orders

import (
	"time"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// LineInput is one resolved line item handed to the order sink.
type LineInput struct {
	SKU          string
	Name         string
	ShortName    string
	Qty          int
	Unit         string
	UnitCode     *string
	FacilityCode string
}

// PlaceOrderInput is a confirmed cart ready to persist.
type PlaceOrderInput struct {
	WaID         string
	FacilityCode string
	Lines        []LineInput
}

// OrderLineDTO is the external representation of one line item.
type OrderLineDTO struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Qty       int    `json:"qty"`
	Unit      string `json:"unit"`
}

// OrderDTO is the external representation of a placed order.
type OrderDTO struct {
	OrderNumber int64             `json:"order_number"`
	WaID        string            `json:"wa_id"`
	Status      enums.OrderStatus `json:"status"`
	Lines       []OrderLineDTO    `json:"lines"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	lines := make([]OrderLineDTO, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLineDTO{
			SKU:       item.SKU,
			Name:      item.Name,
			ShortName: item.ShortName,
			Qty:       item.Qty,
			Unit:      item.Unit,
		})
	}
	return &OrderDTO{
		OrderNumber: order.OrderNumber,
		WaID:        order.WaID,
		Status:      order.Status,
		Lines:       lines,
		CreatedAt:   order.CreatedAt,
	}
}
