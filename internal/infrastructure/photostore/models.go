package photostore

// Модели ответов API фотохранилища.

// uploadResponse — ответ на загрузку файла. Вложенность повторяет формат вендора.
type uploadResponse struct {
	Data struct {
		UploadFile struct {
			File uploadedFile `json:"file"`
		} `json:"uploadFile"`
	} `json:"data"`
}

// uploadedFile — описание загруженного файла. Поля опциональны:
// вендор может не вернуть часть данных.
type uploadedFile struct {
	ID      *int64  `json:"id"`
	FileURL *string `json:"file_url"`
}

// searchResponse — ответ на поиск похожих изображений.
type searchResponse struct {
	Data []searchResult `json:"data"`
}

type searchResult struct {
	FileURL string  `json:"file_url"`
	Score   float64 `json:"score"`
}

// errorResponse — тело ответа вендора при ошибке.
type errorResponse struct {
	Message string `json:"message"`
}
