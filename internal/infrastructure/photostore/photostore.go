package photostore

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	headerAPIKey    = "X-Api-Key"
	headerTimestamp = "X-Timestamp"
	headerSignature = "X-Signature"

	uploadPath    = "/api/v1/files/upload"
	assetPath     = "/api/v1/assets/%d"
	thumbnailPath = "/api/v1/assets/%d/thumbnail"
	searchPath    = "/api/v1/search/image"
)

// PhotoStore — клиент внешнего фотохранилища.
// Все запросы подписываются HMAC-SHA256 от метода, пути и метки времени.
type PhotoStore struct {
	httpClient *http.Client
	cfg        *cfg.PhotoStoreCfg
	logger     logger.Logger
}

func NewPhotoStore(cfg *cfg.PhotoStoreCfg, logger logger.Logger) *PhotoStore {
	return &PhotoStore{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// UploadAsset загружает изображение и возвращает типизированный результат.
// Отсутствующие в ответе вендора поля остаются nil, решение об их
// обязательности принимает вызывающая сторона.
func (p *PhotoStore) UploadAsset(ctx context.Context, req *usecase.UploadAssetReq) (*usecase.UploadAssetRes, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := createFilePart(writer, "files", req.Image.Name, req.Image.MimeType)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if _, err := part.Write(req.Image.Data); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := writer.WriteField("folder_slug", p.cfg.FolderSlug); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := writer.WriteField("is_private", strconv.FormatBool(req.IsPrivate)); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := writer.Close(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, _, err := p.do(ctx, http.MethodPost, p.cfg.BaseURL+uploadPath, body, writer.FormDataContentType())
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var res uploadResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	file := res.Data.UploadFile.File
	return usecase.NewUploadAssetRes(file.ID, file.FileURL), nil
}

// ReleaseAsset освобождает изображение по его идентификатору.
func (p *PhotoStore) ReleaseAsset(ctx context.Context, assetID int64, permanent bool) error {
	url := fmt.Sprintf(p.cfg.BaseURL+assetPath+"?permanently=%t", assetID, permanent)

	if _, _, err := p.do(ctx, http.MethodDelete, url, nil, ""); err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrReleaseFailed, err))
	}

	return nil
}

// FetchAsset скачивает изображение по его внешнему URL.
// Тип содержимого берётся из заголовка ответа, иначе выводится из расширения.
func (p *PhotoStore) FetchAsset(ctx context.Context, fileURL string) (*usecase.AssetContent, error) {
	data, contentType, err := p.do(ctx, http.MethodGet, fileURL, nil, "")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = infrastructure.ContentTypeFromURL(fileURL)
	}

	return usecase.NewAssetContent(data, contentType), nil
}

// FetchThumbnail запрашивает миниатюру изображения с заданными параметрами.
func (p *PhotoStore) FetchThumbnail(ctx context.Context, req *usecase.ThumbnailReq) (*usecase.AssetContent, error) {
	url := fmt.Sprintf(p.cfg.BaseURL+thumbnailPath+"?w=%d&h=%d&format=%s&q=%d",
		req.AssetID, req.Width, req.Height, req.Format, req.Quality)

	data, contentType, err := p.do(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = infrastructure.ContentTypeForFormat(req.Format)
	}

	return usecase.NewAssetContent(data, contentType), nil
}

// SearchSimilar ищет визуально похожие изображения по переданному файлу.
func (p *PhotoStore) SearchSimilar(ctx context.Context, image *usecase.ProductImage, k int) ([]usecase.SimilarAsset, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := createFilePart(writer, "file", image.Name, image.MimeType)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := writer.WriteField("k", strconv.Itoa(k)); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := writer.Close(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, _, err := p.do(ctx, http.MethodPost, p.cfg.BaseURL+searchPath, body, writer.FormDataContentType())
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var res searchResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	results := make([]usecase.SimilarAsset, 0, len(res.Data))
	for _, item := range res.Data {
		results = append(results, usecase.NewSimilarAsset(item.FileURL, item.Score))
	}

	return results, nil
}

// do выполняет подписанный запрос и возвращает тело ответа и его Content-Type.
func (p *PhotoStore) do(ctx context.Context, method, url string, body io.Reader, contentType string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, "", err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p.sign(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("photostore returned %d: %s", resp.StatusCode, vendorMessage(data))
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// sign добавляет аутентификационные заголовки вендора.
func (p *PhotoStore) sign(req *http.Request) {
	timestamp := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	payload := req.Method + "\n" + req.URL.Path + "\n" + timestamp

	mac := hmac.New(sha256.New, []byte(p.cfg.APISecret))
	mac.Write([]byte(payload))

	req.Header.Set(headerAPIKey, p.cfg.APIKey)
	req.Header.Set(headerTimestamp, timestamp)
	req.Header.Set(headerSignature, hex.EncodeToString(mac.Sum(nil)))
}

// vendorMessage извлекает сообщение об ошибке из тела ответа вендора.
func vendorMessage(data []byte) string {
	var res errorResponse
	if err := json.Unmarshal(data, &res); err == nil && res.Message != "" {
		return res.Message
	}

	return string(data)
}

// createFilePart создаёт часть multipart-формы с явным Content-Type файла.
func createFilePart(writer *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	return writer.CreatePart(header)
}
