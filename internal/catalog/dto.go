package catalog

import (
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	"github.com/angelmondragon/pedidoz-backend/pkg/types"
)

// ProductDTO is the external representation of a catalog entry.
type ProductDTO struct {
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	ShortName    string            `json:"short_name"`
	SearchTerms  []string          `json:"search_terms"`
	Units        []string          `json:"units"`
	UnitCodes    map[string]string `json:"unit_codes,omitempty"`
	FacilityCode string            `json:"facility_code,omitempty"`
	IsActive     bool              `json:"is_active"`
}

// UpsertProductInput holds the validated payload to create or replace a
// catalog entry.
type UpsertProductInput struct {
	SKU          string
	Name         string
	ShortName    string
	SearchTerms  []string
	Units        []string
	UnitCodes    map[string]string
	FacilityCode string
	IsActive     bool
}

func toProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		SKU:          product.SKU,
		Name:         product.Name,
		ShortName:    product.ShortName,
		SearchTerms:  product.SearchTerms,
		Units:        product.Units,
		UnitCodes:    product.UnitCodes,
		FacilityCode: product.FacilityCode,
		IsActive:     product.IsActive,
	}
}

func fromUpsertInput(input UpsertProductInput) *models.Product {
	return &models.Product{
		SKU:          input.SKU,
		Name:         input.Name,
		ShortName:    input.ShortName,
		SearchTerms:  types.StringList(input.SearchTerms),
		Units:        types.StringList(input.Units),
		UnitCodes:    types.StringMap(input.UnitCodes),
		FacilityCode: input.FacilityCode,
		IsActive:     input.IsActive,
	}
}
