package allocate

import (
	"autobay/domain"
	"fmt"
)

// StockLedger is the stock collaborator.
type StockLedger interface {
	Get(partName string) (domain.StockItem, bool)
	SetQuantity(partName string, quantity int)
}

// ReserveParts takes one unit of every distinct part, never going below zero,
// and returns a warning for each part that is untracked, exhausted or under its minimum.
func ReserveParts(parts []string, ledger StockLedger) []string {
	warnings := []string{}
	seen := map[string]bool{}
	for _, part := range parts {
		if seen[part] {
			continue
		}
		seen[part] = true

		item, found := ledger.Get(part)
		if !found {
			warnings = append(warnings, fmt.Sprintf("part '%s' is not tracked in stock", part))
			continue
		}
		quantity := max(0, item.Quantity-1)
		ledger.SetQuantity(part, quantity)

		if quantity == 0 {
			warnings = append(warnings, fmt.Sprintf("part '%s' is out of stock", part))
		} else if quantity < item.MinimumStock {
			warnings = append(warnings, fmt.Sprintf("part '%s' is low on stock (%d left, minimum %d)",
				part, quantity, item.MinimumStock))
		}
	}
	return warnings
}
