package http

import (
	"fmt"
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const (
	maxTotalRequestSize = 32 << 20
	maxMemory           = 16 << 20
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает все товары каталога
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}	ProductResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponses(products))
}

// getProduct
//
//	@Summary		Товар по идентификатору
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор товара"
//	@Success		200	{object}	ProductResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт товар, при необходимости загружая изображение в фотохранилище
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название"
//	@Param			description	formData	string	true	"Описание"
//	@Param			price		formData	number	true	"Цена"
//	@Param			stock		formData	integer	true	"Остаток"
//	@Param			status		formData	string	true	"Статус"
//	@Param			category	formData	string	true	"Категория"
//	@Param			image		formData	file	false	"Изображение товара"
//	@Success		201	{object}	ProductResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseCreateProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductResponse(product))
}

// updateProduct
//
//	@Summary		Частичное обновление товара
//	@Description	Обновляет переданные поля; новое изображение заменяет старое
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string	true	"Идентификатор товара"
//	@Param			name		formData	string	false	"Название"
//	@Param			description	formData	string	false	"Описание"
//	@Param			price		formData	number	false	"Цена"
//	@Param			stock		formData	integer	false	"Остаток"
//	@Param			status		formData	string	false	"Статус"
//	@Param			category	formData	string	false	"Категория"
//	@Param			image		formData	file	false	"Новое изображение"
//	@Success		200	{object}	MessageResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)
	id := chi.URLParam(r, "id")

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	req, err := parseUpdateProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{
		Message: "Product updated successfully",
		Data:    NewProductResponse(product),
	})
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Освобождает изображение товара и удаляет запись из каталога
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор товара"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{
		Message: "Product deleted successfully",
	})
}

// searchByImage
//
//	@Summary		Поиск товаров по изображению
//	@Description	Возвращает товары, изображения которых визуально похожи на загруженное
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Изображение-запрос"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/search-by-image [post]
func (p *ProductHandler) searchByImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, err := parseRequiredImage(r, "file")
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.SearchByImage(r.Context(), image)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	message := "No similar images found"
	if len(products) > 0 {
		message = fmt.Sprintf("Found %d similar products", len(products))
	}

	WriteSuccess(w, http.StatusOK, SearchResponse{
		Status:  "success",
		Message: message,
		Data:    NewProductResponses(products),
	})
}
