package models

// Supported item categories, processed in this order during a refresh run.
var Categories = []string{
	"electronics",
	"fashion",
	"home",
	"sports",
	"collectibles",
	"entertainment",
	"automotive",
	"jewelry",
}

// CategoryGeneral is the reserved category key holding the cross-category sample.
const CategoryGeneral = "general"

// Item is one sold-listing snapshot as served to the game client.
// Image references are proxy URLs, never raw upstream URLs.
type Item struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Image      string   `json:"image,omitempty"`
	Images     []string `json:"images,omitempty"`
	Price      float64  `json:"price"`
	Currency   string   `json:"currency,omitempty"`
	Category   string   `json:"category"`
	Condition  string   `json:"condition,omitempty"`
	ItemWebURL string   `json:"itemWebUrl,omitempty"`
}
