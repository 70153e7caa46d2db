package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pedidoz-backend/api/responses"
	"github.com/angelmondragon/pedidoz-backend/api/validators"
	"github.com/angelmondragon/pedidoz-backend/internal/catalog"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
)

type upsertProductRequest struct {
	SKU          string            `json:"sku" validate:"required"`
	Name         string            `json:"name" validate:"required"`
	ShortName    string            `json:"short_name" validate:"required"`
	SearchTerms  []string          `json:"search_terms" validate:"required,min=1,dive,required"`
	Units        []string          `json:"units" validate:"required,min=1,dive,required"`
	UnitCodes    map[string]string `json:"unit_codes"`
	FacilityCode string            `json:"facility_code"`
	IsActive     *bool             `json:"is_active"`
}

// AdminUpsertProduct feeds the catalog out of band; the conversation core
// only ever reads it.
func AdminUpsertProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req upsertProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		dto, err := svc.UpsertProduct(ctx, catalog.UpsertProductInput{
			SKU:          req.SKU,
			Name:         req.Name,
			ShortName:    req.ShortName,
			SearchTerms:  req.SearchTerms,
			Units:        req.Units,
			UnitCodes:    req.UnitCodes,
			FacilityCode: req.FacilityCode,
			IsActive:     active,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminListProducts returns the active catalog, the same snapshot the
// matcher scores against.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		products, err := svc.Snapshot(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dtos := make([]catalog.ProductDTO, 0, len(products))
		for _, p := range products {
			dtos = append(dtos, catalog.ProductDTO{
				SKU:          p.SKU,
				Name:         p.Name,
				ShortName:    p.ShortName,
				SearchTerms:  p.SearchTerms,
				Units:        p.Units,
				UnitCodes:    p.UnitCodes,
				FacilityCode: p.FacilityCode,
				IsActive:     p.IsActive,
			})
		}
		responses.WriteSuccess(w, dtos)
	}
}

// AdminGetProduct returns one catalog entry by SKU.
func AdminGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sku := chi.URLParam(r, "sku")
		product, err := svc.GetBySKU(ctx, sku)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalog.ProductDTO{
			SKU:          product.SKU,
			Name:         product.Name,
			ShortName:    product.ShortName,
			SearchTerms:  product.SearchTerms,
			Units:        product.Units,
			UnitCodes:    product.UnitCodes,
			FacilityCode: product.FacilityCode,
			IsActive:     product.IsActive,
		})
	}
}
