package models

// CartLine is a product snapshot in the cart plus its requested quantity.
// The product fields are embedded so the line serializes flat, the same
// shape the storefront stores.
type CartLine struct {
	Product
	CartID   string `json:"cartId"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// LineTotal is price times quantity for this line.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartTotal sums line totals over the given lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

// CartCount sums quantities over the given lines.
func CartCount(lines []CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
