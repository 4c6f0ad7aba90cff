package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductLink is one reconciled product link for a video. Empty string in a
// URL column means "no link of that kind". Position preserves the order in
// which the link appeared in the description.
type ProductLink struct {
	ID          uuid.UUID `db:"id"`
	VideoID     string    `db:"video_id"`
	Brand       string    `db:"brand"`
	Name        string    `db:"name"`
	ProductType string    `db:"product_type"`
	SearchQuery string    `db:"search_query"`
	ShopMyURL   string    `db:"shopmy_url"`
	AmazonURL   string    `db:"amazon_url"`
	OriginalURL string    `db:"original_url"`
	Price       string    `db:"price"`
	ImageURL    string    `db:"image_url"`
	Source      string    `db:"source"`
	Position    int       `db:"position"`
	CreatedAt   time.Time `db:"created_at"`
}
