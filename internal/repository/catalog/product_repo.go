package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

// Storage — узкий интерфейс персистентности каталога.
// Каталог — единый документ: каждый SaveAll переписывает его целиком.
type Storage interface {
	LoadAll(ctx context.Context) ([]domain.Product, error)
	SaveAll(ctx context.Context, products []domain.Product) error
}

// ProductRepo — единственный владелец состояния каталога.
// Последовательность load-mutate-save не защищена на уровне хранилища,
// поэтому мутации выполняются под общим мьютексом: иначе два одновременных
// писателя теряют изменения друг друга при полной перезаписи документа.
type ProductRepo struct {
	storage Storage
	mu      sync.Mutex
}

func NewProductRepo(storage Storage) *ProductRepo {
	return &ProductRepo{
		storage: storage,
	}
}

// List возвращает все товары каталога. Отсутствие данных — пустой каталог.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.storage.LoadAll(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// GetByID возвращает товар по идентификатору.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.storage.LoadAll(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range products {
		if products[i].ID == id {
			product := products[i]
			return &product, nil
		}
	}

	return nil, e.ErrProductNotFound
}

// Create присваивает товару новый идентификатор и метки времени и сохраняет каталог.
func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.storage.LoadAll(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	now := time.Now().UTC()
	created := *product
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	products = append(products, created)
	if err := r.storage.SaveAll(ctx, products); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &created, nil
}

// Update накладывает патч на товар и сохраняет каталог.
// Непереданные поля сохраняют прежние значения.
func (r *ProductRepo) Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.storage.LoadAll(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, e.ErrProductNotFound
	}

	patch.Apply(&products[idx])
	products[idx].UpdatedAt = time.Now().UTC()

	if err := r.storage.SaveAll(ctx, products); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	updated := products[idx]
	return &updated, nil
}

// Delete удаляет товар из каталога.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.storage.LoadAll(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	remaining := make([]domain.Product, 0, len(products))
	for i := range products {
		if products[i].ID != id {
			remaining = append(remaining, products[i])
		}
	}

	if len(remaining) == len(products) {
		return e.ErrProductNotFound
	}

	if err := r.storage.SaveAll(ctx, remaining); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
