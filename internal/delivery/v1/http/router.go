package http

import (
	_ "github.com/DRSN-tech/catalog-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	prHandler := NewProductHandler(prUC, r.logger)
	imgHandler := NewImageHandler(prUC, r.logger)

	registerProductRoutes(r.router, prHandler)
	registerImageRoutes(r.router, imgHandler)
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Patch("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})

	router.Post("/search-by-image", prHandler.searchByImage)
}

func registerImageRoutes(router chi.Router, imgHandler *ImageHandler) {
	router.Get("/proxy-image-origin", imgHandler.proxyImageOrigin)
	router.Get("/proxy-image-thumbnail/{assetId}", imgHandler.proxyImageThumbnail)
}
