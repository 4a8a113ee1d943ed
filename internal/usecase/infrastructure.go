package usecase

import "context"

// AssetServiceInfra — абстракция внешнего фотохранилища.
type AssetServiceInfra interface {
	UploadAsset(ctx context.Context, req *UploadAssetReq) (*UploadAssetRes, error)
	ReleaseAsset(ctx context.Context, assetID int64, permanent bool) error
	FetchAsset(ctx context.Context, fileURL string) (*AssetContent, error)
	FetchThumbnail(ctx context.Context, req *ThumbnailReq) (*AssetContent, error)
	SearchSimilar(ctx context.Context, image *ProductImage, k int) ([]SimilarAsset, error)
}
