package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

// Service exposes catalog reads for the conversation core and admin upserts
// for the out-of-band catalog feed.
type Service interface {
	Snapshot(ctx context.Context) ([]models.Product, error)
	Match(ctx context.Context, text string) ([]models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	UpsertProduct(ctx context.Context, input UpsertProductInput) (*ProductDTO, error)
}

type productLister interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) (*models.Product, error)
}

type service struct {
	repo productLister
}

// NewService constructs a catalog service instance.
func NewService(repo productLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Snapshot returns the active catalog the matcher runs against.
func (s *service) Snapshot(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListActive(ctx)
}

// Match loads the catalog snapshot and scores it against the user text.
func (s *service) Match(ctx context.Context, text string) ([]models.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return Match(text, products), nil
}

// GetBySKU resolves one product by its unique identifier.
func (s *service) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

// UpsertProduct creates or replaces a catalog entry keyed by SKU.
func (s *service) UpsertProduct(ctx context.Context, input UpsertProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.ShortName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "short_name is required")
	}
	if len(input.SearchTerms) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one search term is required")
	}
	if len(input.Units) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one unit is required")
	}
	for code := range input.UnitCodes {
		if !containsUnit(input.Units, code) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unit code maps unknown unit %q", code))
		}
	}

	product := fromUpsertInput(input)
	saved, err := s.repo.Upsert(ctx, product)
	if err != nil {
		return nil, err
	}
	return toProductDTO(saved), nil
}

func containsUnit(units []string, unit string) bool {
	for _, candidate := range units {
		if strings.EqualFold(candidate, unit) {
			return true
		}
	}
	return false
}
