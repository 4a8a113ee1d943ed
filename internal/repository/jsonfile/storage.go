package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// Storage хранит каталог как единый JSON-документ на диске.
// Каждый SaveAll переписывает файл целиком через временный файл и rename,
// чтобы не оставить каталог в полузаписанном состоянии.
type Storage struct {
	path string
}

func NewStorage(path string) *Storage {
	return &Storage{
		path: path,
	}
}

// LoadAll читает каталог из файла. Отсутствующий файл — пустой каталог.
func (s *Storage) LoadAll(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Product{}, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []productModel
	if err := json.Unmarshal(data, &models); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, toDomain(&models[i]))
	}

	return products, nil
}

// SaveAll сериализует весь каталог и атомарно заменяет файл.
func (s *Storage) SaveAll(_ context.Context, products []domain.Product) error {
	models := make([]productModel, 0, len(products))
	for i := range products {
		models = append(models, toModel(&products[i]))
	}

	data, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf("%s-*.tmp", filepath.Base(s.path)))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
