package jsonfile

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// productModel представляет запись товара в JSON-документе каталога.
type productModel struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Stock          int64     `json:"stock"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	ImageOriginURL *string   `json:"image_origin_url"`
	ImageID        *int64    `json:"image_id"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toModel(product *domain.Product) productModel {
	model := productModel{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.InexactFloat64(),
		Stock:       product.Stock,
		Status:      product.Status,
		Category:    product.Category,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if product.Image != nil {
		model.ImageOriginURL = &product.Image.OriginURL
		model.ImageID = &product.Image.AssetID
	}

	return model
}

func toDomain(model *productModel) domain.Product {
	product := domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       decimal.NewFromFloat(model.Price),
		Stock:       model.Stock,
		Status:      model.Status,
		Category:    model.Category,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	// Ссылка на изображение восстанавливается только целиком.
	if model.ImageOriginURL != nil && model.ImageID != nil {
		product.Image = domain.NewImageAssetRef(*model.ImageOriginURL, *model.ImageID)
	}

	return product
}
