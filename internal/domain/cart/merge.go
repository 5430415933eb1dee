// internal/domain/cart/merge.go
package cart

// MergeItems folds a guest cart into a user cart and returns the combined
// list. Matching is by product id: when the guest list carries a product the
// user list already has, the quantities are summed onto the user's existing
// line and the guest line's size/color is discarded. Guest products the user
// does not have yet are appended as-is. The inputs are not modified.
func MergeItems(userItems, guestItems ItemList) ItemList {
	merged := userItems.Clone()

	for _, gi := range guestItems {
		idx := -1
		for i := range merged {
			if merged[i].ProductID == gi.ProductID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged[idx].Quantity += gi.Quantity
		} else {
			merged = append(merged, gi)
		}
	}

	return merged
}
