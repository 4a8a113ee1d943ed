package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// stubProductUC подменяет бизнес-логику в тестах обработчиков.
type stubProductUC struct {
	listFn   func(ctx context.Context) ([]domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	createFn func(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, req *usecase.UpdateProductReq) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
	searchFn func(ctx context.Context, image *usecase.ProductImage) ([]domain.Product, error)
	assetFn  func(ctx context.Context, fileURL string) (*usecase.AssetContent, error)
	thumbFn  func(ctx context.Context, req *usecase.ThumbnailReq) (*usecase.AssetContent, error)
}

func (s *stubProductUC) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProductUC) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	return s.createFn(ctx, req)
}

func (s *stubProductUC) UpdateProduct(ctx context.Context, id string, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return s.updateFn(ctx, id, req)
}

func (s *stubProductUC) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProductUC) SearchByImage(ctx context.Context, image *usecase.ProductImage) ([]domain.Product, error) {
	return s.searchFn(ctx, image)
}

func (s *stubProductUC) FetchAsset(ctx context.Context, fileURL string) (*usecase.AssetContent, error) {
	return s.assetFn(ctx, fileURL)
}

func (s *stubProductUC) FetchThumbnail(ctx context.Context, req *usecase.ThumbnailReq) (*usecase.AssetContent, error) {
	return s.thumbFn(ctx, req)
}

func newTestRouter(uc usecase.ProductUC) *chi.Mux {
	router := chi.NewRouter()
	registerProductRoutes(router, NewProductHandler(uc, nopLogger{}))
	registerImageRoutes(router, NewImageHandler(uc, nopLogger{}))
	return router
}

func sampleProduct(id string) domain.Product {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Product{
		ID:          id,
		Name:        "Кеды",
		Description: "Белые кеды",
		Price:       decimal.NewFromFloat(1499.99),
		Stock:       12,
		Status:      "active",
		Category:    "shoes",
		Image:       domain.NewImageAssetRef("https://cdn.example.com/keds.jpg", 42),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// multipartBody собирает multipart-форму из текстовых полей и опционального файла.
func multipartBody(t *testing.T, fields map[string]string, fileField string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}

	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "photo.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return body, mw.FormDataContentType()
}

func decodeError(t *testing.T, body io.Reader) ErrorResponse {
	t.Helper()

	var res ErrorResponse
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return res
}

func TestListProducts(t *testing.T) {
	uc := &stubProductUC{
		listFn: func(context.Context) ([]domain.Product, error) {
			return []domain.Product{sampleProduct("p1"), sampleProduct("p2")}, nil
		},
	}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var products []ProductResponse
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ImageOriginURL == nil || *products[0].ImageOriginURL != "https://cdn.example.com/keds.jpg" {
		t.Errorf("image_origin_url lost: %+v", products[0])
	}
	if products[0].ImageID == nil || *products[0].ImageID != 42 {
		t.Errorf("image_id lost: %+v", products[0])
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := &stubProductUC{
		getFn: func(_ context.Context, _ string) (*domain.Product, error) {
			return nil, e.ErrProductNotFound
		},
	}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	res := decodeError(t, rec.Body)
	if res.Code != http.StatusNotFound {
		t.Errorf("error body code mismatch: %d", res.Code)
	}
}

func TestCreateProduct_Created(t *testing.T) {
	var gotReq *usecase.CreateProductReq
	uc := &stubProductUC{
		createFn: func(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
			gotReq = req
			p := sampleProduct("new-id")
			return &p, nil
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Кеды",
		"description": "Белые кеды",
		"price":       "1499.99",
		"stock":       "12",
		"status":      "active",
		"category":    "shoes",
	}, "image", []byte{0xFF, 0xD8, 0xFF, 0xE0})

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotReq == nil {
		t.Fatal("usecase was not called")
	}
	if !gotReq.Price.Equal(decimal.NewFromFloat(1499.99)) {
		t.Errorf("price parsed incorrectly: %s", gotReq.Price)
	}
	if gotReq.Image == nil {
		t.Error("image part lost")
	}

	var res ProductResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID != "new-id" {
		t.Errorf("unexpected id %s", res.ID)
	}
}

func TestCreateProduct_MissingFields(t *testing.T) {
	uc := &stubProductUC{
		createFn: func(context.Context, *usecase.CreateProductReq) (*domain.Product, error) {
			t.Fatal("usecase must not be called on invalid form")
			return nil, nil
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, map[string]string{
		"name": "Кеды",
	}, "", nil)

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateProduct_NotMultipart(t *testing.T) {
	router := newTestRouter(&stubProductUC{})

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	res := decodeError(t, rec.Body)
	if res.Message != e.ErrExpectedMultipart.Error() {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestCreateProduct_UploadFailureIs400(t *testing.T) {
	uc := &stubProductUC{
		createFn: func(context.Context, *usecase.CreateProductReq) (*domain.Product, error) {
			return nil, fmt.Errorf("%w: vendor down", e.ErrUploadFailed)
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Кеды",
		"description": "Белые кеды",
		"price":       "100",
		"stock":       "1",
		"status":      "active",
		"category":    "shoes",
	}, "image", []byte{0xFF, 0xD8})

	req := httptest.NewRequest(http.MethodPost, "/products", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	res := decodeError(t, rec.Body)
	if res.Message != e.ErrUploadFailed.Error() {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	uc := &stubProductUC{
		updateFn: func(context.Context, string, *usecase.UpdateProductReq) (*domain.Product, error) {
			return nil, e.ErrProductNotFound
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, map[string]string{"name": "Новое"}, "", nil)
	req := httptest.NewRequest(http.MethodPatch, "/products/missing", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateProduct_PartialForm(t *testing.T) {
	var gotReq *usecase.UpdateProductReq
	uc := &stubProductUC{
		updateFn: func(_ context.Context, _ string, req *usecase.UpdateProductReq) (*domain.Product, error) {
			gotReq = req
			p := sampleProduct("p1")
			return &p, nil
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Новое имя",
		"price": "250.50",
	}, "", nil)

	req := httptest.NewRequest(http.MethodPatch, "/products/p1", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotReq.Name == nil || *gotReq.Name != "Новое имя" {
		t.Errorf("name not passed: %+v", gotReq.Name)
	}
	if gotReq.Price == nil || !gotReq.Price.Equal(decimal.NewFromFloat(250.50)) {
		t.Errorf("price not passed: %+v", gotReq.Price)
	}
	if gotReq.Description != nil || gotReq.Stock != nil || gotReq.Status != nil || gotReq.Category != nil {
		t.Error("untouched fields must stay nil")
	}
	if gotReq.Image != nil {
		t.Error("image must stay nil when not uploaded")
	}

	var res MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message != "Product updated successfully" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestDeleteProduct(t *testing.T) {
	var deletedID string
	uc := &stubProductUC{
		deleteFn: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	router := newTestRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/p1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deletedID != "p1" {
		t.Errorf("unexpected id %s", deletedID)
	}

	var res MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message != "Product deleted successfully" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestSearchByImage_MessageReflectsResultCount(t *testing.T) {
	uc := &stubProductUC{
		searchFn: func(context.Context, *usecase.ProductImage) ([]domain.Product, error) {
			return []domain.Product{sampleProduct("p1")}, nil
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, nil, "file", []byte{0xFF, 0xD8, 0xFF})
	req := httptest.NewRequest(http.MethodPost, "/search-by-image", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != "success" {
		t.Errorf("unexpected status %q", res.Status)
	}
	if res.Message != "Found 1 similar products" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if len(res.Data) != 1 {
		t.Errorf("expected 1 product, got %d", len(res.Data))
	}
}

func TestSearchByImage_EmptyResult(t *testing.T) {
	uc := &stubProductUC{
		searchFn: func(context.Context, *usecase.ProductImage) ([]domain.Product, error) {
			return []domain.Product{}, nil
		},
	}
	router := newTestRouter(uc)

	body, contentType := multipartBody(t, nil, "file", []byte{0xFF, 0xD8})
	req := httptest.NewRequest(http.MethodPost, "/search-by-image", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message != "No similar images found" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestSearchByImage_MissingFile(t *testing.T) {
	router := newTestRouter(&stubProductUC{})

	body, contentType := multipartBody(t, map[string]string{"unrelated": "field"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/search-by-image", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	res := decodeError(t, rec.Body)
	if res.Message != e.ErrNoFile.Error() {
		t.Errorf("unexpected message %q", res.Message)
	}
}
