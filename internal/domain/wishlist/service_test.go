package wishlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupWishlistTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := "file:wishlist_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Product{}, &WishlistItem{}))

	return NewService(db, &config.Config{}), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *product.Product {
	t.Helper()
	p := &product.Product{
		SKU:      "SKU-" + uuid.NewString()[:8],
		Name:     name,
		Slug:     "slug-" + uuid.NewString()[:8],
		Price:    10000,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestToggle_AddsWhenAbsent(t *testing.T) {
	svc, db := setupWishlistTest(t)
	p := seedProduct(t, db, "Knit Cardigan")

	res, err := svc.Toggle(42, p.ID)
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, 1, res.Count)

	has, err := svc.Contains(42, p.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestToggle_RemovesWhenPresent(t *testing.T) {
	svc, db := setupWishlistTest(t)
	p := seedProduct(t, db, "Knit Cardigan")

	_, err := svc.Toggle(42, p.ID)
	require.NoError(t, err)

	res, err := svc.Toggle(42, p.ID)
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Zero(t, res.Count)

	has, err := svc.Contains(42, p.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestToggle_UnknownProductFails(t *testing.T) {
	svc, _ := setupWishlistTest(t)

	_, err := svc.Toggle(42, 9999)
	assert.Error(t, err)
}

func TestToggle_IsPerUser(t *testing.T) {
	svc, db := setupWishlistTest(t)
	p := seedProduct(t, db, "Wide Pants")

	_, err := svc.Toggle(1, p.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(2, p.ID)
	require.NoError(t, err)

	// User 1 toggling off does not affect user 2.
	_, err = svc.Toggle(1, p.ID)
	require.NoError(t, err)

	has, err := svc.Contains(2, p.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetWishlist_PaginatesNewestFirst(t *testing.T) {
	svc, db := setupWishlistTest(t)

	var last uint
	for i := 0; i < 5; i++ {
		p := seedProduct(t, db, "Item")
		_, err := svc.Toggle(7, p.ID)
		require.NoError(t, err)
		last = p.ID
	}

	resp, err := svc.GetWishlist(7, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 5, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
	assert.Equal(t, last, resp.Items[0].ProductID)
	require.NotNil(t, resp.Items[0].Product)
}

func TestClear_EmptiesWishlist(t *testing.T) {
	svc, db := setupWishlistTest(t)
	p1 := seedProduct(t, db, "A")
	p2 := seedProduct(t, db, "B")

	_, err := svc.Toggle(7, p1.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(7, p2.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(7))

	count, err := svc.Count(7)
	require.NoError(t, err)
	assert.Zero(t, count)
}
