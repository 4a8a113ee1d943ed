package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ImageHandler проксирует изображения из внешнего фотохранилища.
type ImageHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewImageHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ImageHandler {
	return &ImageHandler{productUsecase: productUsecase, logger: logger}
}

// proxyImageOrigin
//
//	@Summary		Оригинал изображения
//	@Description	Отдаёт байты изображения по его внешнему URL
//	@Tags			images
//	@Produce		image/jpeg
//	@Param			file_url	query	string	true	"URL файла в фотохранилище"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	ErrorResponse
//	@Router			/proxy-image-origin [get]
func (h *ImageHandler) proxyImageOrigin(w http.ResponseWriter, r *http.Request) {
	fileURL := r.URL.Query().Get("file_url")
	if fileURL == "" {
		WriteError(w, e.ErrMissingFileURL)
		return
	}

	content, err := h.productUsecase.FetchAsset(r.Context(), fileURL)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	writeContent(w, content)
}

// proxyImageThumbnail
//
//	@Summary		Миниатюра изображения
//	@Description	Отдаёт миниатюру с заданными размерами, форматом и качеством
//	@Tags			images
//	@Produce		image/webp
//	@Param			assetId	path	integer	true	"Идентификатор изображения"
//	@Param			w		query	integer	true	"Ширина, 50..2000"
//	@Param			h		query	integer	true	"Высота, 50..2000"
//	@Param			format	query	string	false	"Формат: webp|jpg|jpeg|png"
//	@Param			q		query	integer	false	"Качество, 10..100"
//	@Success		200	{file}		binary
//	@Failure		400	{object}	ErrorResponse
//	@Router			/proxy-image-thumbnail/{assetId} [get]
func (h *ImageHandler) proxyImageThumbnail(w http.ResponseWriter, r *http.Request) {
	assetID, err := strconv.ParseInt(chi.URLParam(r, "assetId"), 10, 64)
	if err != nil {
		WriteError(w, e.Wrap("assetId", e.ErrInvalidThumbnailParam))
		return
	}

	req, err := parseThumbnailQuery(r, assetID)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	content, err := h.productUsecase.FetchThumbnail(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	writeContent(w, content)
}

// writeContent отдаёт байты изображения с корректным типом содержимого.
func writeContent(w http.ResponseWriter, content *usecase.AssetContent) {
	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(content.Data)
}
