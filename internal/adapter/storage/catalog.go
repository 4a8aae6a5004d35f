package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogSource = (*CatalogRepository)(nil)

type sqlxdb interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type productRow struct {
	ProductID     string  `db:"product_id"`
	Name          string  `db:"name"`
	Price         int64   `db:"price"`
	OriginalPrice int64   `db:"original_price"`
	Image         string  `db:"image"`
	Category      string  `db:"category"`
	Club          string  `db:"club"`
	Sizes         string  `db:"sizes"`
	Colors        string  `db:"colors"`
	Description   string  `db:"description"`
	Rating        float64 `db:"rating"`
	Reviews       int     `db:"reviews"`
}

type newsRow struct {
	NewsID      string    `db:"news_id"`
	Title       string    `db:"title"`
	Excerpt     string    `db:"excerpt"`
	Image       string    `db:"image"`
	PublishedOn time.Time `db:"published_on"`
	Category    string    `db:"category"`
}

// A CatalogRepository keeps the catalog in the products and news tables.
// Rows are read back in position order.
type CatalogRepository struct {
	db sqlxdb
}

func NewCatalogRepository(db sqlxdb) CatalogRepository {
	return CatalogRepository{db}
}

func (r CatalogRepository) ReadProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "CatalogRepository.ReadProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			product_id, name, price, original_price, image, category,
			club, sizes::text AS sizes, colors::text AS colors,
			description, rating, reviews
		FROM products
		ORDER BY position ASC;`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r CatalogRepository) ReadNews(
	ctx context.Context,
) ([]domain.NewsItem, error) {
	const op = "CatalogRepository.ReadNews"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT news_id, title, excerpt, image, published_on, category
		FROM news
		ORDER BY position ASC;`

	var rows []newsRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	news := make([]domain.NewsItem, len(rows))
	for i, row := range rows {
		news[i] = row.toDomain()
	}
	return news, nil
}

// StoreCatalog replaces the stored catalog with products and news in
// one transaction. Positions follow slice order and rows missing from
// the new catalog are deleted.
func (r CatalogRepository) StoreCatalog(
	ctx context.Context, products []domain.Product, news []domain.NewsItem,
) (storeErr error) {
	const op = "CatalogRepository.StoreCatalog"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	if err := storeProducts(ctx, tx, products); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := storeNews(ctx, tx, news); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog stored", "products", len(products), "news", len(news))
	return nil
}

// execer is the part of [sqlx.Tx] the catalog writes go through.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func storeProducts(
	ctx context.Context, tx execer, products []domain.Product,
) error {
	const op = "storeProducts"

	query := `
		INSERT INTO products (
			product_id, name, price, original_price, image, category,
			club, sizes, colors, description, rating, reviews, position
		)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8::jsonb, $9::jsonb, $10, $11, $12, $13
		)
		ON CONFLICT (product_id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			club = EXCLUDED.club,
			sizes = EXCLUDED.sizes,
			colors = EXCLUDED.colors,
			description = EXCLUDED.description,
			rating = EXCLUDED.rating,
			reviews = EXCLUDED.reviews,
			position = EXCLUDED.position;`

	ids := make([]string, 0, len(products))
	for i, p := range products {
		row, err := productToRow(p)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		_, err = tx.ExecContext(ctx, query,
			row.ProductID, row.Name, row.Price, row.OriginalPrice,
			row.Image, row.Category, row.Club, row.Sizes, row.Colors,
			row.Description, row.Rating, row.Reviews, i,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
		ids = append(ids, row.ProductID)
	}

	deleteQuery := `
		DELETE FROM products
		WHERE product_id <> ALL($1::text[]);`

	if _, err := tx.ExecContext(ctx, deleteQuery, ids); err != nil {
		return fmt.Errorf("%s: failed to delete stale rows: %w", op, err)
	}
	return nil
}

func storeNews(
	ctx context.Context, tx execer, news []domain.NewsItem,
) error {
	const op = "storeNews"

	query := `
		INSERT INTO news (
			news_id, title, excerpt, image, published_on, category, position
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (news_id) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			image = EXCLUDED.image,
			published_on = EXCLUDED.published_on,
			category = EXCLUDED.category,
			position = EXCLUDED.position;`

	ids := make([]string, 0, len(news))
	for i, n := range news {
		_, err := tx.ExecContext(ctx, query,
			n.NewsID, n.Title, n.Excerpt, n.Image, n.Date, n.Category, i,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
		ids = append(ids, n.NewsID)
	}

	deleteQuery := `
		DELETE FROM news
		WHERE news_id <> ALL($1::text[]);`

	if _, err := tx.ExecContext(ctx, deleteQuery, ids); err != nil {
		return fmt.Errorf("%s: failed to delete stale rows: %w", op, err)
	}
	return nil
}

func productToRow(p domain.Product) (productRow, error) {
	const op = "productToRow"

	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return productRow{}, fmt.Errorf("%s: %w", op, err)
	}
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return productRow{}, fmt.Errorf("%s: %w", op, err)
	}

	return productRow{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Category:      string(p.Category),
		Club:          p.Club,
		Sizes:         string(sizes),
		Colors:        string(colors),
		Description:   p.Description,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
	}, nil
}

func (row productRow) toDomain() (domain.Product, error) {
	const op = "productRow.toDomain"

	p := domain.Product{
		ProductID:     row.ProductID,
		Name:          row.Name,
		Price:         row.Price,
		OriginalPrice: row.OriginalPrice,
		Image:         row.Image,
		Category:      domain.Category(row.Category),
		Club:          row.Club,
		Description:   row.Description,
		Rating:        row.Rating,
		Reviews:       row.Reviews,
	}

	if err := json.Unmarshal([]byte(row.Sizes), &p.Sizes); err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: product %q sizes: %w", op, row.ProductID, err,
		)
	}
	if err := json.Unmarshal([]byte(row.Colors), &p.Colors); err != nil {
		return domain.Product{}, fmt.Errorf(
			"%s: product %q colors: %w", op, row.ProductID, err,
		)
	}
	return p, nil
}

func (row newsRow) toDomain() domain.NewsItem {
	return domain.NewsItem{
		NewsID:   row.NewsID,
		Title:    row.Title,
		Excerpt:  row.Excerpt,
		Image:    row.Image,
		Date:     row.PublishedOn.UTC(),
		Category: row.Category,
	}
}
