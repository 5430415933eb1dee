// internal/domain/cart/merge_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeItems_SumsQuantitiesForSameProduct(t *testing.T) {
	user := ItemList{
		{ProductID: 5, Name: "Oversized Tee", Price: 19900, Quantity: 1, Size: "M"},
	}
	guest := ItemList{
		{ProductID: 5, Name: "Oversized Tee", Price: 19900, Quantity: 2, Size: "M"},
	}

	merged := MergeItems(user, guest)

	assert.Len(t, merged, 1)
	assert.Equal(t, uint(5), merged[0].ProductID)
	assert.Equal(t, 3, merged[0].Quantity)
}

func TestMergeItems_AppendsGuestOnlyProducts(t *testing.T) {
	user := ItemList{
		{ProductID: 1, Quantity: 1, Size: "S"},
	}
	guest := ItemList{
		{ProductID: 2, Quantity: 4, Size: "L", Color: "black"},
	}

	merged := MergeItems(user, guest)

	assert.Len(t, merged, 2)
	assert.Equal(t, uint(1), merged[0].ProductID)
	assert.Equal(t, 1, merged[0].Quantity)
	assert.Equal(t, uint(2), merged[1].ProductID)
	assert.Equal(t, 4, merged[1].Quantity)
	assert.Equal(t, "L", merged[1].Size)
}

func TestMergeItems_UserOnlyProductsUnchanged(t *testing.T) {
	user := ItemList{
		{ProductID: 7, Quantity: 2, Color: "navy"},
		{ProductID: 8, Quantity: 1},
	}

	merged := MergeItems(user, ItemList{})

	assert.Equal(t, user, merged)
}

// Merging matches on product id alone. Two lines for the same product with
// different sizes collapse into the user's existing line, keeping its size.
// This pins the current behavior; variant-aware merging would change it.
func TestMergeItems_CollapsesDifferentVariantsOfSameProduct(t *testing.T) {
	user := ItemList{
		{ProductID: 5, Quantity: 1, Size: "M"},
	}
	guest := ItemList{
		{ProductID: 5, Quantity: 2, Size: "L"},
	}

	merged := MergeItems(user, guest)

	assert.Len(t, merged, 1)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, "M", merged[0].Size)
}

func TestMergeItems_DoesNotModifyInputs(t *testing.T) {
	user := ItemList{{ProductID: 1, Quantity: 1}}
	guest := ItemList{{ProductID: 1, Quantity: 2}}

	_ = MergeItems(user, guest)

	assert.Equal(t, 1, user[0].Quantity)
	assert.Equal(t, 2, guest[0].Quantity)
}

func TestMergeItems_EmptyBothSides(t *testing.T) {
	merged := MergeItems(ItemList{}, ItemList{})
	assert.Empty(t, merged)
}
