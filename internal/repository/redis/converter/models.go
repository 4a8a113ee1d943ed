package converter

import "time"

// ProductRedisModel — JSON-представление товара в кэше.
type ProductRedisModel struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Stock          int64     `json:"stock"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	ImageOriginURL *string   `json:"image_origin_url"`
	ImageID        *int64    `json:"image_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
