package vectordb

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/spf13/cast"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

type milvusStore struct {
	cli        client.Client
	collection string
	timeout    time.Duration
}

func newMilvusStore(ctx context.Context, cfg config.VectorDBConfig) (*milvusStore, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cli, err := client.NewClient(dialCtx, client.Config{
		Address:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: milvus dial: %v", schema.ErrIndexUnavailable, err)
	}
	return &milvusStore{cli: cli, collection: cfg.Collection, timeout: timeout}, nil
}

func (m *milvusStore) Close() error { return m.cli.Close() }

func (m *milvusStore) Search(ctx context.Context, vector []float32, limit int) ([]schema.CatalogCandidate, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("milvus search param: %w", err)
	}
	results, err := m.cli.Search(ctx, m.collection, nil, "", productFields,
		[]entity.Vector{entity.FloatVector(vector)}, "embedding",
		entity.COSINE, limit, sp)
	if err != nil {
		return nil, fmt.Errorf("%w: milvus search: %v", schema.ErrIndexUnavailable, err)
	}

	var out []schema.CatalogCandidate
	for _, rs := range results {
		cols := make(map[string]entity.Column, len(rs.Fields))
		for _, col := range rs.Fields {
			cols[col.Name()] = col
		}
		for i := 0; i < rs.ResultCount; i++ {
			c := schema.CatalogCandidate{
				ID:          colString(cols, "id", i),
				Title:       colString(cols, "title", i),
				Brand:       colString(cols, "brand", i),
				Category:    colString(cols, "category", i),
				Subcategory: colString(cols, "subcategory", i),
				Features:    colString(cols, "features", i),
				Ingredients: colString(cols, "ingredients", i),
				ProductURL:  colString(cols, "product_url", i),
				ImageURL:    colString(cols, "image_url", i),
				Price:       colFloatPtr(cols, "price", i),
				Rating:      colFloatPtr(cols, "rating", i),
			}
			if c.ID == "" && rs.IDs != nil {
				if v, err := rs.IDs.Get(i); err == nil {
					c.ID = cast.ToString(v)
				}
			}
			// COSINE scores are similarities; convert to a distance so
			// lower is always better downstream.
			if i < len(rs.Scores) {
				c.Distance = 1 - float64(rs.Scores[i])
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func colString(cols map[string]entity.Column, name string, i int) string {
	col, ok := cols[name]
	if !ok {
		return ""
	}
	v, err := col.Get(i)
	if err != nil {
		return ""
	}
	return cast.ToString(v)
}

func colFloatPtr(cols map[string]entity.Column, name string, i int) *float64 {
	col, ok := cols[name]
	if !ok {
		return nil
	}
	v, err := col.Get(i)
	if err != nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}
