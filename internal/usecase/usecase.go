package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchByImage(ctx context.Context, image *ProductImage) ([]domain.Product, error)
	FetchAsset(ctx context.Context, fileURL string) (*AssetContent, error)
	FetchThumbnail(ctx context.Context, req *ThumbnailReq) (*AssetContent, error)
}
