package domain

// Dish is a catalog entry. The catalog is read-only from this service's point
// of view; price is kept as the raw catalog text (it may be currency-formatted)
// and is normalized through the pricing package before any arithmetic.
type Dish struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Category     string `json:"category"`
	Image        string `json:"image"`
	RestaurantID string `json:"restaurant_id"`
}

type Restaurant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	Image   string `json:"image"`
	Rating  string `json:"rating"`
}
