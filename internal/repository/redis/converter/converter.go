package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью кэша.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	model := &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price.InexactFloat64(),
		Stock:       entity.Stock,
		Status:      entity.Status,
		Category:    entity.Category,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}

	if entity.Image != nil {
		model.ImageOriginURL = &entity.Image.OriginURL
		model.ImageID = &entity.Image.AssetID
	}

	return model
}

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	entity := &domain.Product{
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

	if model.ImageOriginURL != nil && model.ImageID != nil {
		entity.Image = domain.NewImageAssetRef(*model.ImageOriginURL, *model.ImageID)
	}

	return entity
}
