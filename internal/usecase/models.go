package usecase

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла
}

// CreateProductReq — запрос на создание товара.
// Image может быть nil: товар без изображения допустим.
type CreateProductReq struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Status      string
	Category    string
	Image       *ProductImage
}

// UpdateProductReq — запрос на частичное обновление товара.
// Нулевые указатели означают «поле не передано».
type UpdateProductReq struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int64
	Status      *string
	Category    *string
	Image       *ProductImage
}

// INFRASTRUCTURE

// UploadAssetReq — запрос на загрузку изображения в фотохранилище.
type UploadAssetReq struct {
	Image     ProductImage
	IsPrivate bool
}

// UploadAssetRes — типизированный результат загрузки.
// Поля опциональны: вендор может не вернуть часть данных.
type UploadAssetRes struct {
	AssetID *int64
	FileURL *string
}

// Ref возвращает полную ссылку на изображение, если вендор вернул обе части.
func (r *UploadAssetRes) Ref() (*domain.ImageAssetRef, bool) {
	if r == nil || r.AssetID == nil || r.FileURL == nil || *r.FileURL == "" {
		return nil, false
	}

	return domain.NewImageAssetRef(*r.FileURL, *r.AssetID), true
}

// SimilarAsset — один результат поиска похожих изображений.
type SimilarAsset struct {
	FileURL string
	Score   float64
}

// AssetContent — байты изображения вместе с типом содержимого.
type AssetContent struct {
	Data        []byte
	ContentType string
}

// ThumbnailReq — запрос миниатюры изображения.
type ThumbnailReq struct {
	AssetID int64
	Width   int
	Height  int
	Format  string
	Quality int
}

// MAPPERS

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewUploadAssetReq(image ProductImage, isPrivate bool) *UploadAssetReq {
	return &UploadAssetReq{
		Image:     image,
		IsPrivate: isPrivate,
	}
}

func NewUploadAssetRes(assetID *int64, fileURL *string) *UploadAssetRes {
	return &UploadAssetRes{
		AssetID: assetID,
		FileURL: fileURL,
	}
}

func NewSimilarAsset(fileURL string, score float64) SimilarAsset {
	return SimilarAsset{
		FileURL: fileURL,
		Score:   score,
	}
}

func NewAssetContent(data []byte, contentType string) *AssetContent {
	return &AssetContent{
		Data:        data,
		ContentType: contentType,
	}
}

func NewThumbnailReq(assetID int64, width, height int, format string, quality int) *ThumbnailReq {
	return &ThumbnailReq{
		AssetID: assetID,
		Width:   width,
		Height:  height,
		Format:  format,
		Quality: quality,
	}
}
