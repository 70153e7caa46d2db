package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

type stubRepo struct {
	products []models.Product
	upserted *models.Product
	listErr  error
}

func (s *stubRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].SKU == sku {
			return &s.products[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubRepo) Upsert(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.upserted = product
	return product, nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestServiceMatchUsesSnapshot(t *testing.T) {
	repo := &stubRepo{products: catalogFixture()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	candidates, err := svc.Match(context.Background(), "2 cajas de leche")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(candidates) != 1 || candidates[0].SKU != "LECHE-001" {
		t.Fatalf("unexpected candidates %v", candidates)
	}
}

func TestServiceUpsertValidates(t *testing.T) {
	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []UpsertProductInput{
		{},
		{SKU: "X"},
		{SKU: "X", Name: "N"},
		{SKU: "X", Name: "N", ShortName: "S"},
		{SKU: "X", Name: "N", ShortName: "S", SearchTerms: []string{"x"}},
		{SKU: "X", Name: "N", ShortName: "S", SearchTerms: []string{"x"}, Units: []string{"caja"}, UnitCodes: map[string]string{"botella": "BOT"}},
	}
	for i, input := range cases {
		if _, err := svc.UpsertProduct(context.Background(), input); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if repo.upserted != nil {
		t.Fatal("invalid input must not reach the repository")
	}
}

func TestServiceUpsertMapsFields(t *testing.T) {
	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.UpsertProduct(context.Background(), UpsertProductInput{
		SKU:          "LECHE-001",
		Name:         "Leche Entera 1L",
		ShortName:    "Leche Entera",
		SearchTerms:  []string{"leche"},
		Units:        []string{"caja", "unidad"},
		UnitCodes:    map[string]string{"caja": "CJ"},
		FacilityCode: "F01",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if dto.SKU != "LECHE-001" || dto.ShortName != "Leche Entera" {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if repo.upserted == nil {
		t.Fatal("expected product to reach repository")
	}
	if repo.upserted.Units[0] != "caja" || repo.upserted.FacilityCode != "F01" {
		t.Fatalf("unexpected stored product %+v", repo.upserted)
	}
	if repo.upserted.SearchTerms[0] != "leche" {
		t.Fatalf("unexpected search terms %v", repo.upserted.SearchTerms)
	}
}
