package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// ProductRepository — хранилище каталога, единственный владелец его состояния.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CacheRepository — кэш товаров. Промах выражается как (nil, nil).
type CacheRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
