package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

type pgvectorStore struct {
	pool    *pgxpool.Pool
	table   string
	timeout time.Duration
}

func newPGVectorStore(ctx context.Context, cfg config.VectorDBConfig) (*pgvectorStore, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: pgvector connect: %v", schema.ErrIndexUnavailable, err)
	}
	table := cfg.Collection
	if table == "" {
		table = "products"
	}
	return &pgvectorStore{
		pool:    pool,
		table:   table,
		timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, nil
}

func (p *pgvectorStore) Close() error {
	p.pool.Close()
	return nil
}

func (p *pgvectorStore) Search(ctx context.Context, vector []float32, limit int) ([]schema.CatalogCandidate, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	q := fmt.Sprintf(`SELECT id, title, brand, category, subcategory,
		price, rating, features, ingredients, product_url, image_url,
		embedding <=> $1 AS distance
		FROM %s ORDER BY embedding <=> $1 LIMIT $2`, p.table)
	rows, err := p.pool.Query(ctx, q, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: pgvector query: %v", schema.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var out []schema.CatalogCandidate
	for rows.Next() {
		var c schema.CatalogCandidate
		var brand, category, subcategory, features, ingredients, productURL, imageURL *string
		if err := rows.Scan(&c.ID, &c.Title, &brand, &category, &subcategory,
			&c.Price, &c.Rating, &features, &ingredients, &productURL, &imageURL,
			&c.Distance); err != nil {
			return nil, fmt.Errorf("pgvector scan: %w", err)
		}
		c.Brand = deref(brand)
		c.Category = deref(category)
		c.Subcategory = deref(subcategory)
		c.Features = deref(features)
		c.Ingredients = deref(ingredients)
		c.ProductURL = deref(productURL)
		c.ImageURL = deref(imageURL)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: pgvector rows: %v", schema.ErrIndexUnavailable, err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
