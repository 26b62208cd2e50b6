// Package cart prices a shopper's cart. Every function here is pure: the
// totals are recomputed from the current cart/product join on each call and
// nothing is cached.
package cart

import "github.com/shopspring/decimal"

// Line is one product entry of a cart joined with its catalog record.
type Line struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Subtotal returns price × quantity for the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Merge consolidates lines that refer to the same product into one line whose
// quantity is the sum of the duplicates. The first occurrence keeps its
// position and catalog fields.
func Merge(lines []Line) []Line {
	merged := make([]Line, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

// Total is the sum of price × quantity over all lines, rounded to cents.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}

// ItemCount is the number of units across all lines.
func ItemCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// ViewLine is a Line with its computed line total.
type ViewLine struct {
	Line
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is the priced representation returned to clients.
type View struct {
	Items     []ViewLine      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// Summarize merges duplicate lines and prices the result.
func Summarize(lines []Line) View {
	merged := Merge(lines)
	items := make([]ViewLine, len(merged))
	for i, l := range merged {
		items[i] = ViewLine{Line: l, LineTotal: l.Subtotal().Round(2)}
	}
	return View{
		Items:     items,
		ItemCount: ItemCount(merged),
		Total:     Total(merged),
	}
}
