package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// nopLogger глушит логи в тестах.
type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// fakeProductRepo — каталог в памяти без персистентности.
type fakeProductRepo struct {
	products  []domain.Product
	createErr error
	nextID    int
}

func (r *fakeProductRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}

	r.nextID++
	created := *product
	created.ID = string(rune('a' + r.nextID))
	r.products = append(r.products, created)
	return &created, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			patch.Apply(&r.products[i])
			updated := r.products[i]
			return &updated, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return e.ErrProductNotFound
}

// fakeAssetService подменяет фотохранилище.
type fakeAssetService struct {
	uploadRes  *UploadAssetRes
	uploadErr  error
	releaseErr error
	released   []int64
	searchRes  []SimilarAsset
	searchErr  error
}

func (s *fakeAssetService) UploadAsset(_ context.Context, _ *UploadAssetReq) (*UploadAssetRes, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploadRes, nil
}

func (s *fakeAssetService) ReleaseAsset(_ context.Context, assetID int64, _ bool) error {
	s.released = append(s.released, assetID)
	return s.releaseErr
}

func (s *fakeAssetService) FetchAsset(_ context.Context, _ string) (*AssetContent, error) {
	return NewAssetContent([]byte("img"), "image/jpeg"), nil
}

func (s *fakeAssetService) FetchThumbnail(_ context.Context, _ *ThumbnailReq) (*AssetContent, error) {
	return NewAssetContent([]byte("thumb"), "image/webp"), nil
}

func (s *fakeAssetService) SearchSimilar(_ context.Context, _ *ProductImage, _ int) ([]SimilarAsset, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchRes, nil
}

// fakeCache — кэш в памяти.
type fakeCache struct {
	store   map[string]*domain.Product
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]*domain.Product)}
}

func (c *fakeCache) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	return c.store[id], nil
}

func (c *fakeCache) SetProduct(_ context.Context, product *domain.Product) error {
	c.store[product.ID] = product
	return nil
}

func (c *fakeCache) DeleteProduct(_ context.Context, id string) error {
	c.deleted = append(c.deleted, id)
	delete(c.store, id)
	return nil
}

func newTestUC(repo *fakeProductRepo, assets *fakeAssetService, cache *fakeCache) *ProductUseCase {
	if cache == nil {
		cache = newFakeCache()
	}
	return NewProductUC(repo, assets, cache, nopLogger{}, 10)
}

func completeUpload(assetID int64, fileURL string) *UploadAssetRes {
	return NewUploadAssetRes(&assetID, &fileURL)
}

func testImage() *ProductImage {
	return NewProductImage([]byte{0xFF, 0xD8, 0xFF}, "image/jpeg", 3, "photo.jpg")
}

func createReq(image *ProductImage) *CreateProductReq {
	return &CreateProductReq{
		Name:        "Ботинки",
		Description: "Кожаные ботинки",
		Price:       decimal.NewFromFloat(2490.00),
		Stock:       3,
		Status:      "active",
		Category:    "shoes",
		Image:       image,
	}
}

func TestCreateProduct_WithoutImage(t *testing.T) {
	repo := &fakeProductRepo{}
	uc := newTestUC(repo, &fakeAssetService{}, nil)

	product, err := uc.CreateProduct(context.Background(), createReq(nil))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.HasImage() {
		t.Error("product must not have image ref")
	}
	if len(repo.products) != 1 {
		t.Fatalf("expected 1 product in catalog, got %d", len(repo.products))
	}
}

func TestCreateProduct_UploadHappensBeforeCatalogWrite(t *testing.T) {
	repo := &fakeProductRepo{}
	assets := &fakeAssetService{uploadRes: completeUpload(7, "https://cdn.example.com/7.jpg")}
	uc := newTestUC(repo, assets, nil)

	product, err := uc.CreateProduct(context.Background(), createReq(testImage()))
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !product.HasImage() {
		t.Fatal("expected image ref on created product")
	}
	if product.Image.AssetID != 7 || product.Image.OriginURL != "https://cdn.example.com/7.jpg" {
		t.Errorf("unexpected image ref %+v", product.Image)
	}
}

func TestCreateProduct_UploadFailureAbortsCreation(t *testing.T) {
	repo := &fakeProductRepo{}
	assets := &fakeAssetService{uploadErr: errors.New("vendor down")}
	uc := newTestUC(repo, assets, nil)

	_, err := uc.CreateProduct(context.Background(), createReq(testImage()))
	if !errors.Is(err, e.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(repo.products) != 0 {
		t.Fatalf("catalog must stay unchanged after failed upload, got %d products", len(repo.products))
	}
}

func TestCreateProduct_IncompleteUploadAborts(t *testing.T) {
	repo := &fakeProductRepo{}
	id := int64(7)
	assets := &fakeAssetService{uploadRes: NewUploadAssetRes(&id, nil)}
	uc := newTestUC(repo, assets, nil)

	_, err := uc.CreateProduct(context.Background(), createReq(testImage()))
	if !errors.Is(err, e.ErrUploadIncomplete) {
		t.Fatalf("expected ErrUploadIncomplete, got %v", err)
	}
	if len(repo.products) != 0 {
		t.Fatal("product with partial image ref must not reach the catalog")
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newTestUC(&fakeProductRepo{}, &fakeAssetService{}, nil)
	ctx := context.Background()

	blank := createReq(nil)
	blank.Name = "   "
	if _, err := uc.CreateProduct(ctx, blank); !errors.Is(err, e.ErrMissingFields) {
		t.Errorf("blank name: expected ErrMissingFields, got %v", err)
	}

	negativePrice := createReq(nil)
	negativePrice.Price = decimal.NewFromInt(-1)
	if _, err := uc.CreateProduct(ctx, negativePrice); !errors.Is(err, e.ErrInvalidPrice) {
		t.Errorf("negative price: expected ErrInvalidPrice, got %v", err)
	}

	negativeStock := createReq(nil)
	negativeStock.Stock = -5
	if _, err := uc.CreateProduct(ctx, negativeStock); !errors.Is(err, e.ErrInvalidStock) {
		t.Errorf("negative stock: expected ErrInvalidStock, got %v", err)
	}
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	cache := newFakeCache()
	cached := &domain.Product{ID: "p1", Name: "Из кэша"}
	cache.store["p1"] = cached

	uc := newTestUC(&fakeProductRepo{}, &fakeAssetService{}, cache)

	product, err := uc.GetProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if product.Name != "Из кэша" {
		t.Errorf("expected cached product, got %+v", product)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := newTestUC(&fakeProductRepo{}, &fakeAssetService{}, nil)

	_, err := uc.GetProduct(context.Background(), "missing")
	if !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateProduct_NewImageReleasesPreviousAsset(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{
		ID:    "p1",
		Name:  "Товар",
		Image: domain.NewImageAssetRef("https://cdn.example.com/old.jpg", 1),
	}}}
	assets := &fakeAssetService{uploadRes: completeUpload(2, "https://cdn.example.com/new.jpg")}
	cache := newFakeCache()
	uc := newTestUC(repo, assets, cache)

	updated, err := uc.UpdateProduct(context.Background(), "p1", &UpdateProductReq{Image: testImage()})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	if len(assets.released) != 1 || assets.released[0] != 1 {
		t.Errorf("expected previous asset 1 released, got %v", assets.released)
	}
	if updated.Image == nil || updated.Image.AssetID != 2 {
		t.Errorf("image ref not replaced: %+v", updated.Image)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != "p1" {
		t.Errorf("cache not invalidated: %v", cache.deleted)
	}
}

func TestUpdateProduct_ReleaseFailureIsSoft(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{
		ID:    "p1",
		Name:  "Товар",
		Image: domain.NewImageAssetRef("https://cdn.example.com/old.jpg", 1),
	}}}
	assets := &fakeAssetService{
		uploadRes:  completeUpload(2, "https://cdn.example.com/new.jpg"),
		releaseErr: errors.New("vendor rejected"),
	}
	uc := newTestUC(repo, assets, nil)

	updated, err := uc.UpdateProduct(context.Background(), "p1", &UpdateProductReq{Image: testImage()})
	if err != nil {
		t.Fatalf("release failure must not fail the update: %v", err)
	}
	if updated.Image == nil || updated.Image.AssetID != 2 {
		t.Errorf("update not applied: %+v", updated.Image)
	}
}

func TestUpdateProduct_UploadFailureLeavesRecordUntouched(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{
		ID:    "p1",
		Name:  "Старое имя",
		Image: domain.NewImageAssetRef("https://cdn.example.com/old.jpg", 1),
	}}}
	assets := &fakeAssetService{uploadErr: errors.New("vendor down")}
	uc := newTestUC(repo, assets, nil)

	newName := "Новое имя"
	_, err := uc.UpdateProduct(context.Background(), "p1", &UpdateProductReq{
		Name:  &newName,
		Image: testImage(),
	})
	if !errors.Is(err, e.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}

	if repo.products[0].Name != "Старое имя" {
		t.Error("record must stay untouched after failed upload")
	}
	if len(assets.released) != 0 {
		t.Error("previous asset must not be released when upload fails")
	}
}

func TestUpdateProduct_NotFoundBeforeUpload(t *testing.T) {
	assets := &fakeAssetService{uploadErr: errors.New("must not be called")}
	uc := newTestUC(&fakeProductRepo{}, assets, nil)

	_, err := uc.UpdateProduct(context.Background(), "missing", &UpdateProductReq{Image: testImage()})
	if !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound before any upload, got %v", err)
	}
}

func TestDeleteProduct_ReleasesAssetThenRemoves(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{
		ID:    "p1",
		Name:  "Товар",
		Image: domain.NewImageAssetRef("https://cdn.example.com/old.jpg", 9),
	}}}
	assets := &fakeAssetService{}
	cache := newFakeCache()
	uc := newTestUC(repo, assets, cache)

	if err := uc.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	if len(assets.released) != 1 || assets.released[0] != 9 {
		t.Errorf("expected asset 9 released, got %v", assets.released)
	}
	if len(repo.products) != 0 {
		t.Error("product not removed from catalog")
	}
	if len(cache.deleted) != 1 {
		t.Error("cache not invalidated on delete")
	}
}

func TestDeleteProduct_ReleaseFailureIsSoft(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{{
		ID:    "p1",
		Image: domain.NewImageAssetRef("https://cdn.example.com/old.jpg", 9),
	}}}
	assets := &fakeAssetService{releaseErr: errors.New("vendor rejected")}
	uc := newTestUC(repo, assets, nil)

	if err := uc.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("release failure must not block deletion: %v", err)
	}
	if len(repo.products) != 0 {
		t.Error("product not removed despite soft release failure")
	}
}

func TestSearchByImage_FiltersCatalogBySimilarURLs(t *testing.T) {
	repo := &fakeProductRepo{products: []domain.Product{
		{ID: "a", Name: "Без пары в поиске", Image: domain.NewImageAssetRef("https://cdn.example.com/a.jpg", 1)},
		{ID: "b", Name: "Похожий", Image: domain.NewImageAssetRef("https://cdn.example.com/b.jpg", 2)},
		{ID: "c", Name: "Тоже похожий", Image: domain.NewImageAssetRef("https://cdn.example.com/c.jpg", 3)},
		{ID: "d", Name: "Без картинки"},
	}}
	assets := &fakeAssetService{searchRes: []SimilarAsset{
		NewSimilarAsset("https://cdn.example.com/b.jpg", 0.93),
		NewSimilarAsset("https://cdn.example.com/c.jpg", 0.88),
		NewSimilarAsset("https://cdn.example.com/unknown.jpg", 0.80),
	}}
	uc := newTestUC(repo, assets, nil)

	matched, err := uc.SearchByImage(context.Background(), testImage())
	if err != nil {
		t.Fatalf("SearchByImage: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}

	ids := map[string]bool{matched[0].ID: true, matched[1].ID: true}
	if !ids["b"] || !ids["c"] {
		t.Errorf("unexpected matches %v", ids)
	}
}

func TestSearchByImage_NoResultsIsNotAnError(t *testing.T) {
	uc := newTestUC(&fakeProductRepo{}, &fakeAssetService{}, nil)

	matched, err := uc.SearchByImage(context.Background(), testImage())
	if err != nil {
		t.Fatalf("SearchByImage: %v", err)
	}
	if matched == nil || len(matched) != 0 {
		t.Fatalf("expected empty result, got %v", matched)
	}
}
