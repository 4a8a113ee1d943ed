package pgdb

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// Storage хранит каталог в PostgreSQL, сохраняя семантику единого документа:
// SaveAll переписывает таблицу целиком внутри одной транзакции.
type Storage struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewStorage(pool *pgxpool.Pool, conv converter.ProductConverter) *Storage {
	return &Storage{
		pool: pool,
		conv: conv,
	}
}

// LoadAll читает все товары каталога.
func (s *Storage) LoadAll(ctx context.Context) ([]domain.Product, error) {
	const query = `
		SELECT id, name, description, price, stock, status, category,
		       image_origin_url, image_id, created_at, updated_at
		FROM products`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID,
			&model.Name,
			&model.Description,
			&model.Price,
			&model.Stock,
			&model.Status,
			&model.Category,
			&model.ImageOriginURL,
			&model.ImageID,
			&model.CreatedAt,
			&model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		products = append(products, *s.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// SaveAll транзакционно заменяет содержимое таблицы новым состоянием каталога.
func (s *Storage) SaveAll(ctx context.Context, products []domain.Product) error {
	const op = "pgdb.Storage.SaveAll"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.pool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err := s.replaceAll(ctx, products); err != nil {
		return e.Wrap(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// replaceAll очищает таблицу и вставляет все записи батчем в рамках транзакции из контекста.
func (s *Storage) replaceAll(ctx context.Context, products []domain.Product) error {
	const insertQuery = `
		INSERT INTO products (id, name, description, price, stock, status, category,
		                      image_origin_url, image_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	trx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := trx.Exec(ctx, `DELETE FROM products`); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(products) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range products {
		model := s.conv.ToModel(&products[i])
		batch.Queue(insertQuery,
			model.ID,
			model.Name,
			model.Description,
			model.Price,
			model.Stock,
			model.Status,
			model.Category,
			model.ImageOriginURL,
			model.ImageID,
			model.CreatedAt,
			model.UpdatedAt,
		)
	}

	results := trx.SendBatch(ctx, batch)
	defer results.Close()

	for range products {
		if _, err := results.Exec(); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}
