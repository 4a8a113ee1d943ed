package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	Price          float64   `db:"price"`
	Stock          int64     `db:"stock"`
	Status         string    `db:"status"`
	Category       string    `db:"category"`
	ImageOriginURL *string   `db:"image_origin_url"`
	ImageID        *int64    `db:"image_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
