// internal/domain/inventory/service_test.go
package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupInventoryTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Product{}, &InventoryLog{}))

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	return NewService(db, &config.Config{}, l), db
}

func createTestProduct(t *testing.T, db *gorm.DB, table product.SizeColorStockTable) *product.Product {
	t.Helper()
	p := &product.Product{
		SKU:             "TEE-" + uuid.NewString()[:8],
		Name:            "Oversized Tee",
		Slug:            "oversized-tee-" + uuid.NewString()[:8],
		Price:           19900,
		IsActive:        true,
		SizeColorStocks: table,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *product.Product {
	t.Helper()
	var p product.Product
	require.NoError(t, db.First(&p, id).Error)
	return &p
}

var testActor = Actor{ID: 1, Email: "admin@example.com"}

func TestProcessStockTransaction_StockInCreatesAbsentEntry(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{})

	entry, err := svc.ProcessStockTransaction(&StockTransactionRequest{
		ProductID:    p.ID,
		MovementType: MovementTypeStockIn,
		Size:         "M",
		Color:        "black",
		Quantity:     7,
		Reason:       "initial stock",
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, 0, entry.BeforeQuantity)
	assert.Equal(t, 7, entry.AfterQuantity)
	assert.Equal(t, MovementTypeStockIn, entry.MovementType)
	assert.Equal(t, "admin@example.com", entry.AdminEmail)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 7, got.SizeColorStocks.QuantityOf("M", "black"))
	assert.Equal(t, int64(1), got.StockVersion)
}

func TestProcessStockTransaction_StockInAccumulates(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 3},
	})

	entry, err := svc.ProcessStockTransaction(&StockTransactionRequest{
		ProductID:    p.ID,
		MovementType: MovementTypeStockIn,
		Size:         "M",
		Color:        "black",
		Quantity:     4,
		Reason:       "restock",
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, 3, entry.BeforeQuantity)
	assert.Equal(t, 7, entry.AfterQuantity)
	assert.Equal(t, 7, reloadProduct(t, db, p.ID).SizeColorStocks.QuantityOf("M", "black"))
}

func TestProcessStockTransaction_InsufficientStockLeavesTableUnchanged(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 2},
	})

	_, err := svc.ProcessStockTransaction(&StockTransactionRequest{
		ProductID:    p.ID,
		MovementType: MovementTypeStockOut,
		Size:         "M",
		Color:        "black",
		Quantity:     5,
		Reason:       "order",
	}, testActor)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Current)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 2, got.SizeColorStocks.QuantityOf("M", "black"))
	assert.Equal(t, int64(0), got.StockVersion)

	var count int64
	require.NoError(t, db.Model(&InventoryLog{}).Count(&count).Error)
	assert.Zero(t, count, "failed transaction must not append to the ledger")
}

func TestProcessStockTransaction_StockOutForAbsentPairFails(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 2},
	})

	_, err := svc.ProcessStockTransaction(&StockTransactionRequest{
		ProductID:    p.ID,
		MovementType: MovementTypeStockOut,
		Size:         "L",
		Color:        "white",
		Quantity:     1,
		Reason:       "order",
	}, testActor)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Current)
}

func TestProcessStockTransaction_StockOutToZeroPrunesEntry(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 5},
		{Size: "L", Color: "black", Quantity: 2},
	})

	entry, err := svc.ProcessStockTransaction(&StockTransactionRequest{
		ProductID:    p.ID,
		MovementType: MovementTypeStockOut,
		Size:         "M",
		Color:        "black",
		Quantity:     5,
		Reason:       "sold out",
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, 5, entry.BeforeQuantity)
	assert.Equal(t, 0, entry.AfterQuantity)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, -1, got.SizeColorStocks.Find("M", "black"), "zeroed entry must be pruned, not kept at 0")
	assert.Equal(t, 2, got.SizeColorStocks.QuantityOf("L", "black"))
}

func TestProcessStockTransaction_Validation(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{})

	cases := []struct {
		name string
		req  StockTransactionRequest
	}{
		{"missing size", StockTransactionRequest{ProductID: p.ID, MovementType: MovementTypeStockIn, Color: "black", Quantity: 1, Reason: "x"}},
		{"missing color", StockTransactionRequest{ProductID: p.ID, MovementType: MovementTypeStockIn, Size: "M", Quantity: 1, Reason: "x"}},
		{"zero quantity", StockTransactionRequest{ProductID: p.ID, MovementType: MovementTypeStockIn, Size: "M", Color: "black", Quantity: 0, Reason: "x"}},
		{"negative quantity", StockTransactionRequest{ProductID: p.ID, MovementType: MovementTypeStockOut, Size: "M", Color: "black", Quantity: -2, Reason: "x"}},
		{"missing reason", StockTransactionRequest{ProductID: p.ID, MovementType: MovementTypeStockIn, Size: "M", Color: "black", Quantity: 1}},
		{"unknown movement type", StockTransactionRequest{ProductID: p.ID, MovementType: "adjust", Size: "M", Color: "black", Quantity: 1, Reason: "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ProcessStockTransaction(&tc.req, testActor)
			assert.Error(t, err)
		})
	}
}

func TestCompareAndSwapTable_RejectsStaleVersion(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 5},
	})

	// First writer wins and bumps the version.
	require.NoError(t, svc.compareAndSwapTable(p.ID, 0, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 6},
	}))

	// Second writer still holds version 0 and must be rejected.
	err := svc.compareAndSwapTable(p.ID, 0, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 99},
	})
	require.ErrorIs(t, err, ErrStockConflict)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 6, got.SizeColorStocks.QuantityOf("M", "black"))
	assert.Equal(t, int64(1), got.StockVersion)
}

func TestSyncStockTotals_Idempotent(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p1 := createTestProduct(t, db, product.SizeColorStockTable{
		{Size: "M", Color: "black", Quantity: 5},
		{Size: "L", Color: "white", Quantity: 3},
	})
	p2 := createTestProduct(t, db, product.SizeColorStockTable{})

	updated, err := svc.SyncStockTotals()
	require.NoError(t, err)
	assert.Equal(t, 1, updated) // p2's total already matches its empty table

	assert.Equal(t, 8, reloadProduct(t, db, p1.ID).Quantity)
	assert.Equal(t, 0, reloadProduct(t, db, p2.ID).Quantity)

	// Second run with no intervening transactions changes nothing.
	updated, err = svc.SyncStockTotals()
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, 8, reloadProduct(t, db, p1.ID).Quantity)
}

func TestGetLedger_FiltersAndPaginates(t *testing.T) {
	svc, db := setupInventoryTest(t)
	p := createTestProduct(t, db, product.SizeColorStockTable{})

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessStockTransaction(&StockTransactionRequest{
			ProductID:    p.ID,
			MovementType: MovementTypeStockIn,
			Size:         "M",
			Color:        "black",
			Quantity:     1,
			Reason:       "restock",
		}, testActor)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	resp, err := svc.GetLedger(&LedgerListRequest{Page: 1, Limit: 2, ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, 2, resp.TotalPages)
	// Newest first
	assert.Equal(t, 3, resp.Entries[0].AfterQuantity)

	out, err := svc.GetLedger(&LedgerListRequest{Page: 1, Limit: 10, Type: string(MovementTypeStockOut)})
	require.NoError(t, err)
	assert.Zero(t, out.Total)
}

func TestInsufficientStockError_MessageCarriesCurrentQuantity(t *testing.T) {
	err := &InsufficientStockError{Size: "M", Color: "black", Current: 2}
	assert.Contains(t, err.Error(), "2 available")
	assert.False(t, errors.Is(err, ErrStockConflict))
}
