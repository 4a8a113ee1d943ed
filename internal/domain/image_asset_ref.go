package domain

// ImageAssetRef описывает ссылку на изображение во внешнем фотохранилище.
// Пара (OriginURL, AssetID) всегда заполнена целиком: частично заданной
// ссылки не существует по построению.
type ImageAssetRef struct {
	OriginURL string
	AssetID   int64
}

func NewImageAssetRef(originURL string, assetID int64) *ImageAssetRef {
	return &ImageAssetRef{
		OriginURL: originURL,
		AssetID:   assetID,
	}
}
