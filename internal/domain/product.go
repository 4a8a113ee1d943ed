package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога
type Product struct {
	ID          string // uuid
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Status      string
	Category    string
	// Image — ссылка на изображение товара во внешнем хранилище.
	// nil, если изображение не прикреплено.
	Image     *ImageAssetRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProduct(name string, description string, price decimal.Decimal, stock int64, status string, category string, image *ImageAssetRef) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Status:      status,
		Category:    category,
		Image:       image,
	}
}

// HasImage сообщает, прикреплено ли к товару изображение.
func (p *Product) HasImage() bool {
	return p.Image != nil
}
