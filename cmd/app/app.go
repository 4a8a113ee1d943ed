package main

import (
	"os"

	"github.com/DRSN-tech/catalog-backend/internal/app"
	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// @title			Catalog Backend API
// @version		1.0
// @description	HTTP API каталога товаров с проксированием изображений в фотохранилище
// @BasePath		/
func main() {
	log := logger.NewSlogLogger()

	config, err := cfg.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(config, log)
	if err != nil {
		log.Errorf(err, "failed to init application")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Errorf(err, "application stopped with error")
		os.Exit(1)
	}
}
