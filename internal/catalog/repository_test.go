package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/types"
)

func newCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS products`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		short_name TEXT NOT NULL,
		search_terms TEXT NOT NULL,
		units TEXT NOT NULL,
		unit_codes TEXT,
		facility_code TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, active bool) models.Product {
	t.Helper()
	product := models.Product{
		SKU:         sku,
		Name:        "Producto " + sku,
		ShortName:   sku,
		SearchTerms: types.StringList{"producto"},
		Units:       types.StringList{"caja"},
		IsActive:    active,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestListActiveFiltersInactive(t *testing.T) {
	db := newCatalogDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "SKU-A", true)
	seedProduct(t, db, "SKU-B", false)
	seedProduct(t, db, "SKU-C", true)

	products, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, product := range products {
		require.True(t, product.IsActive)
	}
}

func TestGetBySKU(t *testing.T) {
	db := newCatalogDB(t)
	repo := NewRepository(db)
	seeded := seedProduct(t, db, "SKU-X", true)

	found, err := repo.GetBySKU(context.Background(), "SKU-X")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, found.ID)
	require.Equal(t, types.StringList{"producto"}, found.SearchTerms)

	_, err = repo.GetBySKU(context.Background(), "NOPE")
	require.Error(t, err)
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	db := newCatalogDB(t)
	repo := NewRepository(db)

	created, err := repo.Upsert(context.Background(), &models.Product{
		SKU:         "SKU-U",
		Name:        "Original",
		ShortName:   "Orig",
		SearchTerms: types.StringList{"original"},
		Units:       types.StringList{"caja"},
		IsActive:    true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := repo.Upsert(context.Background(), &models.Product{
		SKU:         "SKU-U",
		Name:        "Renombrado",
		ShortName:   "Nuevo",
		SearchTerms: types.StringList{"renombrado"},
		Units:       types.StringList{"caja", "unidad"},
		IsActive:    true,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	found, err := repo.GetBySKU(context.Background(), "SKU-U")
	require.NoError(t, err)
	require.Equal(t, "Renombrado", found.Name)
	require.Equal(t, types.StringList{"caja", "unidad"}, found.Units)
}
