// internal/domain/product/option_service_test.go
package product

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/furniture-backend/internal/config"
	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newOptionTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Product{}, &MaterialOption{}, &ColorOption{}, &FabricOption{}, &SizeOption{}, &ProductImage{},
	))
	return NewService(db, &config.Config{}), db
}

func seedChair(t *testing.T, db *gorm.DB) *Product {
	t.Helper()

	p := Product{
		SKU: "CHAIR-TEST", Name: "Test Chair", Slug: "test-chair",
		BasePrice: 40000, Category: CategoryArmchair, IsActive: true,
		Materials: []MaterialOption{
			{Name: "Oak", IsDefault: true},
			{Name: "Walnut", PriceModifier: 8000},
		},
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func defaultMaterialCount(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&MaterialOption{}).
		Where("product_id = ? AND is_default = ?", productID, true).
		Count(&n).Error)
	return n
}

func TestAddOptionDefaultFlipsGroupDefault(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)

	updated, err := svc.AddOption(p.ID, GroupMaterials, &AddOptionRequest{
		Name: "Ash", PriceModifier: 3000, IsDefault: true,
	})
	require.NoError(t, err)
	require.Len(t, updated.Materials, 3)
	assert.Equal(t, int64(1), defaultMaterialCount(t, db, p.ID))

	cfg := updated.DefaultConfiguration()
	id, ok := cfg.OptionID(KeyMaterial)
	require.True(t, ok)
	assert.Equal(t, "Ash", updated.FindMaterial(id).Name)
}

func TestAddOptionSizeRequiresLabelAndPrice(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)

	_, err := svc.AddOption(p.ID, GroupSizes, &AddOptionRequest{BasePrice: 50000})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = svc.AddOption(p.ID, GroupSizes, &AddOptionRequest{Label: "Wide"})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	updated, err := svc.AddOption(p.ID, GroupSizes, &AddOptionRequest{Label: "Wide", BasePrice: 50000, WidthCM: 90})
	require.NoError(t, err)
	require.Len(t, updated.Sizes, 1)
	assert.Equal(t, int64(50000), updated.Sizes[0].BasePrice)
}

func TestAddOptionUnknownGroupRejected(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)

	_, err := svc.AddOption(p.ID, OptionGroup("finishes"), &AddOptionRequest{Name: "Matte"})
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestUpdateOptionModifierChangesResolvedPrice(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)
	walnut := p.Materials[1]

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, walnut.ID)
	assert.Equal(t, int64(48000), ResolvePrice(p, cfg))

	modifier := int64(12000)
	updated, err := svc.UpdateOption(p.ID, walnut.ID, GroupMaterials, &UpdateOptionRequest{
		PriceModifier: &modifier,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(52000), ResolvePrice(updated, cfg))
}

func TestUpdateOptionDefaultFlagMovesAtomically(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)
	walnut := p.Materials[1]

	isDefault := true
	updated, err := svc.UpdateOption(p.ID, walnut.ID, GroupMaterials, &UpdateOptionRequest{
		IsDefault: &isDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), defaultMaterialCount(t, db, p.ID))
	assert.True(t, updated.FindMaterial(walnut.ID).IsDefault)
	assert.False(t, updated.FindMaterial(p.Materials[0].ID).IsDefault)
}

func TestUpdateOptionScopedToProduct(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)

	other := Product{SKU: "TBL-OTHER", Name: "Other Table", Slug: "other-table", BasePrice: 30000, Category: CategoryTable, IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	name := "Hijacked"
	_, err := svc.UpdateOption(other.ID, p.Materials[0].ID, GroupMaterials, &UpdateOptionRequest{Name: &name})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestDeleteOptionVanishedIDPricesAsZero(t *testing.T) {
	svc, db := newOptionTestService(t)
	p := seedChair(t, db)
	walnut := p.Materials[1]

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, walnut.ID)

	updated, err := svc.DeleteOption(p.ID, walnut.ID, GroupMaterials)
	require.NoError(t, err)
	require.Len(t, updated.Materials, 1)

	// Cart lines still holding the deleted id resolve without its modifier.
	assert.Equal(t, int64(40000), ResolvePrice(updated, cfg))

	_, err = svc.DeleteOption(p.ID, walnut.ID, GroupMaterials)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
