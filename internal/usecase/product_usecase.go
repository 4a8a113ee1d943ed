package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductUseCase реализует бизнес-логику каталога и согласование
// жизненного цикла изображений с внешним фотохранилищем.
//
// Ошибки загрузки изображения жёсткие: операция над каталогом прерывается.
// Ошибки освобождения старого изображения мягкие: логируются и игнорируются,
// чтобы best-effort очистка внешнего ресурса не блокировала каталог.
type ProductUseCase struct {
	productRepo  ProductRepository
	assetService AssetServiceInfra
	cacheRepo    CacheRepository
	logger       logger.Logger
	searchLimit  int
}

func NewProductUC(
	productRepo ProductRepository,
	assetService AssetServiceInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
	searchLimit int,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		assetService: assetService,
		cacheRepo:    cacheRepo,
		logger:       logger,
		searchLimit:  searchLimit,
	}
}

// ListProducts возвращает все товары каталога.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар по идентификатору, используя кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// CreateProduct создаёт товар, при необходимости предварительно загружая
// изображение в фотохранилище. Неудачная загрузка прерывает создание:
// запись в каталоге не появляется.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := p.validateCreate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var imageRef *domain.ImageAssetRef
	if req.Image != nil {
		ref, err := p.uploadImage(ctx, req.Image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		imageRef = ref
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(
		req.Name,
		req.Description,
		req.Price,
		req.Stock,
		req.Status,
		req.Category,
		imageRef,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// UpdateProduct частично обновляет товар. Если передано новое изображение,
// оно загружается до изменения записи; старое освобождается best-effort.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id string, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	current, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	patch := &domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      req.Status,
		Category:    req.Category,
	}

	if req.Image != nil {
		ref, err := p.uploadImage(ctx, req.Image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		p.releasePreviousAsset(ctx, current)
		patch.Image = ref
	}

	updated, err := p.productRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id, op)

	return updated, nil
}

// DeleteProduct освобождает изображение товара (best-effort) и удаляет запись.
// Неудачное освобождение не блокирует удаление из каталога.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductUseCase.DeleteProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	p.releasePreviousAsset(ctx, product)

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id, op)

	return nil
}

// SearchByImage находит товары, чьи изображения визуально похожи на переданное.
// Пустой результат — штатная ситуация, не ошибка.
func (p *ProductUseCase) SearchByImage(ctx context.Context, image *ProductImage) ([]domain.Product, error) {
	const op = "ProductUseCase.SearchByImage"

	results, err := p.assetService.SearchSimilar(ctx, image, p.searchLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(results) == 0 {
		return []domain.Product{}, nil
	}

	similarURLs := make(map[string]struct{}, len(results))
	for _, res := range results {
		if res.FileURL != "" {
			similarURLs[res.FileURL] = struct{}{}
		}
	}

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	matched := make([]domain.Product, 0)
	for _, product := range products {
		if !product.HasImage() {
			continue
		}
		if _, ok := similarURLs[product.Image.OriginURL]; ok {
			matched = append(matched, product)
		}
	}

	return matched, nil
}

// FetchAsset возвращает байты изображения по его внешнему URL.
func (p *ProductUseCase) FetchAsset(ctx context.Context, fileURL string) (*AssetContent, error) {
	const op = "ProductUseCase.FetchAsset"

	content, err := p.assetService.FetchAsset(ctx, fileURL)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return content, nil
}

// FetchThumbnail возвращает миниатюру изображения с заданными параметрами.
func (p *ProductUseCase) FetchThumbnail(ctx context.Context, req *ThumbnailReq) (*AssetContent, error) {
	const op = "ProductUseCase.FetchThumbnail"

	content, err := p.assetService.FetchThumbnail(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return content, nil
}

// uploadImage загружает изображение и требует от вендора полную ссылку.
// Неполный ответ (без file_url или id) считается ошибкой: частично заданная
// ссылка на изображение не должна попасть в каталог.
func (p *ProductUseCase) uploadImage(ctx context.Context, image *ProductImage) (*domain.ImageAssetRef, error) {
	res, err := p.assetService.UploadAsset(ctx, NewUploadAssetReq(*image, false))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrUploadFailed, err)
	}

	ref, ok := res.Ref()
	if !ok {
		return nil, e.ErrUploadIncomplete
	}

	return ref, nil
}

// releasePreviousAsset освобождает текущее изображение товара.
// Мягкая ошибка: неудача логируется и не прерывает операцию.
func (p *ProductUseCase) releasePreviousAsset(ctx context.Context, product *domain.Product) {
	if !product.HasImage() {
		return
	}

	if err := p.assetService.ReleaseAsset(ctx, product.Image.AssetID, false); err != nil {
		p.logger.Warnf("failed to release asset %d for product %s: %v",
			product.Image.AssetID, product.ID, fmt.Errorf("%w: %v", e.ErrReleaseFailed, err))
	}
}

// invalidateCache удаляет товар из кэша, логируя неудачу.
func (p *ProductUseCase) invalidateCache(ctx context.Context, id string, op string) {
	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", e.Wrap(op, err))
	}
}

// validateCreate проверяет корректность входных данных запроса на создание товара.
func (p *ProductUseCase) validateCreate(req *CreateProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrMissingFields
	}

	if req.Price.LessThan(decimal.Zero) {
		return e.ErrInvalidPrice
	}

	if req.Stock < 0 {
		return e.ErrInvalidStock
	}

	return nil
}
