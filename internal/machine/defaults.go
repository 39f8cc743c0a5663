package machine

import "svw.info/changemaker/internal/domain"

// DefaultRegister is the register a fresh machine starts with.
func DefaultRegister() domain.Register {
	return domain.Register{
		{Denom: 5, Count: 20},
		{Denom: 10, Count: 40},
		{Denom: 20, Count: 3},
		{Denom: 50, Count: 5},
		{Denom: 100, Count: 30},
		{Denom: 200, Count: 20},
		{Denom: 500, Count: 6},
		{Denom: 1000, Count: 10},
		{Denom: 2000, Count: 10},
		{Denom: 5000, Count: 10},
	}
}

// DefaultProducts is the stock catalog.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "vitC", Name: "Vitamin C 1000mg", Price: 1299, Stock: 12, Description: "Immune support supplement."},
		{ID: "paracetamol", Name: "Paracetamol 500mg", Price: 399, Stock: 20, Description: "General-purpose mild pain relief."},
		{ID: "ibuprofen", Name: "Ibuprofen 200mg", Price: 699, Stock: 15, Description: "Anti-inflammatory analgesic."},
		{ID: "antihistamine", Name: "Non-Drowsy Antihistamine", Price: 1299, Stock: 10, Description: "Seasonal allergy relief."},
		{ID: "coldflu", Name: "Cold & Flu Day/Night Pack", Price: 1499, Stock: 6, Description: "Symptom management combo pack."},
		{ID: "magnesium", Name: "Magnesium Tablets 300mg", Price: 899, Stock: 18, Description: "General supplement."},
	}
}

func DefaultState() domain.State {
	return domain.State{
		Register: DefaultRegister(),
		Products: DefaultProducts(),
		Meta:     map[string]string{"rounding": RoundingNearest5, "version": "1"},
	}
}
