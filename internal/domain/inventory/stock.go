// internal/domain/inventory/stock.go
package inventory

import (
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// applyStockIn adds quantity to the (size, color) entry, inserting the entry
// when absent. Returns the new table plus the before/after quantities for
// the ledger. The input table is not modified.
func applyStockIn(table product.SizeColorStockTable, size, color string, quantity int) (product.SizeColorStockTable, int, int) {
	out := table.Clone()

	idx := out.Find(size, color)
	if idx >= 0 {
		before := out[idx].Quantity
		out[idx].Quantity = before + quantity
		return out, before, out[idx].Quantity
	}

	out = append(out, product.SizeColorStock{Size: size, Color: color, Quantity: quantity})
	return out, 0, quantity
}

// applyStockOut subtracts quantity from the (size, color) entry. It fails
// with InsufficientStockError when the entry is absent or holds less than
// requested. An entry that reaches zero is removed from the table rather
// than kept at zero. The input table is not modified.
func applyStockOut(table product.SizeColorStockTable, size, color string, quantity int) (product.SizeColorStockTable, int, int, error) {
	idx := table.Find(size, color)
	if idx < 0 {
		return nil, 0, 0, &InsufficientStockError{Size: size, Color: color, Current: 0}
	}

	before := table[idx].Quantity
	if quantity > before {
		return nil, 0, 0, &InsufficientStockError{Size: size, Color: color, Current: before}
	}

	out := table.Clone()
	after := before - quantity
	if after == 0 {
		out = append(out[:idx], out[idx+1:]...)
	} else {
		out[idx].Quantity = after
	}
	return out, before, after, nil
}
