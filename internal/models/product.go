package models

// Product is a sellable catalog item. The JSON shape matches the catalog
// file published to the storefront (public/products.json).
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
}

// DefaultProducts is the demo menu the catalog resets to.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "The Capone Classic",
			Description: "180g blend angus, queijo cheddar inglês, bacon caramelizado, cebola roxa e molho secreto.",
			Price:       38.90,
			Category:    "Burgers",
			Image:       "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=800&q=80",
			Available:   true,
		},
		{
			ID:          "2",
			Name:        "Prohibition Chicken",
			Description: "Filé de frango empanado crocante, alface americana, picles e maionese de ervas.",
			Price:       29.90,
			Category:    "Burgers",
			Image:       "https://images.unsplash.com/photo-1615297928064-24977384d0f5?auto=format&fit=crop&w=800&q=80",
			Available:   true,
		},
		{
			ID:          "3",
			Name:        "Mafia Fries",
			Description: "Batatas rústicas com páprica, cobertas com cheddar cremoso e farofa de bacon.",
			Price:       18.00,
			Category:    "Sides",
			Image:       "https://images.unsplash.com/photo-1573080496987-aeb7d53385c7?auto=format&fit=crop&w=800&q=80",
			Available:   true,
		},
		{
			ID:          "4",
			Name:        "Godfather Shake",
			Description: "Milkshake de chocolate belga com borda de avelã e chantilly.",
			Price:       22.00,
			Category:    "Drinks",
			Image:       "https://images.unsplash.com/photo-1572490122747-3968b75cc699?auto=format&fit=crop&w=800&q=80",
			Available:   true,
		},
		{
			ID:          "5",
			Name:        "Smugglers Smash",
			Description: "Dois burgers smash 90g, duplo queijo prato e molho da casa no pão brioche.",
			Price:       32.50,
			Category:    "Burgers",
			Image:       "https://images.unsplash.com/photo-1594212699903-ec8a3eca50f5?auto=format&fit=crop&w=800&q=80",
			Available:   true,
		},
	}
}
