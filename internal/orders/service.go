package orders

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/pedidoz-backend/pkg/db"
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/outbox"
)

// Service exposes order persistence for the conversation core.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	Status(ctx context.Context, orderNumber int64) (*OrderDTO, error)
	History(ctx context.Context, waID string, limit int) ([]OrderDTO, error)
}

type orderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByNumber(ctx context.Context, orderNumber int64) (*models.Order, error)
	ListByWaID(ctx context.Context, waID string, limit int) ([]models.Order, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    orderRepo
	db      txRunner
	emitter eventEmitter
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repository *Repository
	DB         *db.Client
	Emitter    *outbox.Service
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: params.Repository, db: params.DB, emitter: params.Emitter}, nil
}

// Place persists the confirmed cart and queues the order_created event in
// the same transaction, so the event exists iff the order does.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.WaID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wa_id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line item")
	}
	for i, line := range input.Lines {
		if strings.TrimSpace(line.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d is missing a sku", i+1))
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d has a non-positive quantity", i+1))
		}
		if strings.TrimSpace(line.Unit) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d is missing a unit", i+1))
		}
	}

	order := &models.Order{
		WaID:         input.WaID,
		Status:       enums.OrderStatusReceived,
		FacilityCode: input.FacilityCode,
		Items:        make([]models.OrderLineItem, 0, len(input.Lines)),
	}
	for i, line := range input.Lines {
		order.Items = append(order.Items, models.OrderLineItem{
			SKU:          line.SKU,
			Name:         line.Name,
			ShortName:    line.ShortName,
			Qty:          line.Qty,
			Unit:         line.Unit,
			UnitCode:     line.UnitCode,
			FacilityCode: line.FacilityCode,
			Position:     i,
		})
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{WaID: input.WaID},
			Data: map[string]any{
				"orderNumber":  order.OrderNumber,
				"waId":         input.WaID,
				"facilityCode": input.FacilityCode,
				"lineCount":    len(order.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// Status resolves one order by its user-facing number.
func (s *service) Status(ctx context.Context, orderNumber int64) (*OrderDTO, error) {
	if orderNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number must be positive")
	}
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// History lists the user's recent orders.
func (s *service) History(ctx context.Context, waID string, limit int) ([]OrderDTO, error) {
	if strings.TrimSpace(waID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wa_id is required")
	}
	rows, err := s.repo.ListByWaID(ctx, waID, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toOrderDTO(&rows[i]))
	}
	return dtos, nil
}
