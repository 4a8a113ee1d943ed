package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ProductResponse — представление товара в ответах API.
type ProductResponse struct {
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

// MessageResponse — ответ мутирующих операций с сообщением и данными.
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SearchResponse — ответ поиска по изображению.
type SearchResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    []ProductResponse `json:"data"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func NewProductResponse(product *domain.Product) ProductResponse {
	res := ProductResponse{
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
		res.ImageOriginURL = &product.Image.OriginURL
		res.ImageID = &product.Image.AssetID
	}

	return res
}

func NewProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, NewProductResponse(&products[i]))
	}

	return responses
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrUploadFailed):
		return http.StatusBadRequest, e.ErrUploadFailed.Error()
	case errors.Is(err, e.ErrUploadIncomplete):
		return http.StatusBadRequest, e.ErrUploadIncomplete.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidStock):
		return http.StatusBadRequest, e.ErrInvalidStock.Error()
	case errors.Is(err, e.ErrNoFile):
		return http.StatusBadRequest, e.ErrNoFile.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrMissingFileURL):
		return http.StatusBadRequest, e.ErrMissingFileURL.Error()
	case errors.Is(err, e.ErrInvalidThumbnailParam):
		return http.StatusBadRequest, e.ErrInvalidThumbnailParam.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePrice разбирает цену из строки формы.
// Отклоняет отрицательные значения и более двух знаков после запятой.
func parsePrice(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Decimal{}, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return decimal.Decimal{}, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return decimal.Decimal{}, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return decimal.Decimal{}, e.ErrPricePrecision
	}

	return d, nil
}

// parseStock разбирает количество на складе. Отрицательные значения отклоняются.
func parseStock(s string) (int64, error) {
	stock, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || stock < 0 {
		return 0, e.ErrInvalidStock
	}

	return stock, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseCreateProductForm собирает запрос на создание товара из multipart-формы.
// Все текстовые поля обязательны, изображение опционально.
func parseCreateProductForm(r *http.Request) (*usecase.CreateProductReq, error) {
	name := r.FormValue("name")
	description := r.FormValue("description")
	priceStr := r.FormValue("price")
	stockStr := r.FormValue("stock")
	status := r.FormValue("status")
	category := r.FormValue("category")

	if name == "" || description == "" || priceStr == "" || stockStr == "" || status == "" || category == "" {
		return nil, e.ErrMissingFields
	}

	price, err := parsePrice(priceStr)
	if err != nil {
		return nil, err
	}

	stock, err := parseStock(stockStr)
	if err != nil {
		return nil, err
	}

	image, err := parseOptionalImage(r)
	if err != nil {
		return nil, err
	}

	return &usecase.CreateProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Status:      status,
		Category:    category,
		Image:       image,
	}, nil
}

// parseUpdateProductForm собирает запрос на частичное обновление:
// непереданные поля остаются nil.
func parseUpdateProductForm(r *http.Request) (*usecase.UpdateProductReq, error) {
	req := &usecase.UpdateProductReq{}

	if v := r.FormValue("name"); v != "" {
		req.Name = &v
	}
	if v := r.FormValue("description"); v != "" {
		req.Description = &v
	}
	if v := r.FormValue("status"); v != "" {
		req.Status = &v
	}
	if v := r.FormValue("category"); v != "" {
		req.Category = &v
	}

	if v := r.FormValue("price"); v != "" {
		price, err := parsePrice(v)
		if err != nil {
			return nil, err
		}
		req.Price = &price
	}

	if v := r.FormValue("stock"); v != "" {
		stock, err := parseStock(v)
		if err != nil {
			return nil, err
		}
		req.Stock = &stock
	}

	image, err := parseOptionalImage(r)
	if err != nil {
		return nil, err
	}
	req.Image = image

	return req, nil
}

// parseOptionalImage возвращает изображение из поля image формы или nil.
func parseOptionalImage(r *http.Request) (*usecase.ProductImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, nil
	}

	return parseImageFile(files[0])
}

// parseRequiredImage возвращает изображение из указанного поля формы,
// отсутствие файла — ошибка.
func parseRequiredImage(r *http.Request, field string) (*usecase.ProductImage, error) {
	if r.MultipartForm == nil {
		return nil, e.ErrNoFile
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, e.ErrNoFile
	}

	return parseImageFile(files[0])
}

func parseImageFile(fh *multipart.FileHeader) (*usecase.ProductImage, error) {
	const maxFileSize = 15 << 20

	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// parseThumbnailQuery валидирует параметры миниатюры.
// Границы: ширина и высота 50..2000, качество 10..100, формат webp|jpg|jpeg|png.
func parseThumbnailQuery(r *http.Request, assetID int64) (*usecase.ThumbnailReq, error) {
	const (
		minSide    = 50
		maxSide    = 2000
		minQuality = 10
		maxQuality = 100

		defaultFormat  = "webp"
		defaultQuality = 80
	)

	width, err := strconv.Atoi(r.URL.Query().Get("w"))
	if err != nil || width < minSide || width > maxSide {
		return nil, e.Wrap("w", e.ErrInvalidThumbnailParam)
	}

	height, err := strconv.Atoi(r.URL.Query().Get("h"))
	if err != nil || height < minSide || height > maxSide {
		return nil, e.Wrap("h", e.ErrInvalidThumbnailParam)
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = defaultFormat
	}
	switch format {
	case "webp", "jpg", "jpeg", "png":
	default:
		return nil, e.Wrap("format", e.ErrInvalidThumbnailParam)
	}

	quality := defaultQuality
	if q := r.URL.Query().Get("q"); q != "" {
		quality, err = strconv.Atoi(q)
		if err != nil || quality < minQuality || quality > maxQuality {
			return nil, e.Wrap("q", e.ErrInvalidThumbnailParam)
		}
	}

	return usecase.NewThumbnailReq(assetID, width, height, format, quality), nil
}
