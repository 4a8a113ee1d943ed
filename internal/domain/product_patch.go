package domain

import "github.com/shopspring/decimal"

// ProductPatch описывает частичное обновление товара.
// Нулевые указатели означают «оставить прежнее значение».
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	Status      *string
	Category    *string
	// Image заменяет ссылку на изображение целиком, если задан.
	Image *ImageAssetRef
}

// Apply накладывает заданные поля патча на товар.
func (p *ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Image != nil {
		product.Image = p.Image
	}
}
