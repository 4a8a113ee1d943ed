package infrastructure

import "strings"

// ContentTypeFromURL определяет тип содержимого изображения по расширению файла в URL.
// Неизвестные расширения считаются JPEG.
func ContentTypeFromURL(fileURL string) string {
	switch {
	case strings.HasSuffix(fileURL, ".png"):
		return "image/png"
	case strings.HasSuffix(fileURL, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ContentTypeForFormat возвращает тип содержимого миниатюры по запрошенному формату.
func ContentTypeForFormat(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "image/webp"
	}
}
