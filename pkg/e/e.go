package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки жизненного цикла изображений
	ErrUploadFailed     = fmt.Errorf("asset upload failed")
	ErrUploadIncomplete = fmt.Errorf("asset upload returned no file url")
	ErrReleaseFailed    = fmt.Errorf("asset release failed")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrExpectedMultipart     = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields         = fmt.Errorf("required fields are missing")
	ErrInvalidPrice          = fmt.Errorf("invalid price")
	ErrPricePrecision        = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidStock          = fmt.Errorf("invalid stock")
	ErrNoFile                = fmt.Errorf("no file provided")
	ErrFileTooLarge          = fmt.Errorf("file too large")
	ErrMissingFileURL        = fmt.Errorf("file_url query parameter is required")
	ErrInvalidThumbnailParam = fmt.Errorf("invalid thumbnail parameter")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
