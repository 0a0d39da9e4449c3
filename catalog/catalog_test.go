package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

type fakeStore struct {
	gotLimit int
	rows     []schema.CatalogCandidate
	err      error
}

func (f *fakeStore) Search(_ context.Context, _ []float32, limit int) ([]schema.CatalogCandidate, error) {
	f.gotLimit = limit
	return f.rows, f.err
}

func (f *fakeStore) Close() error { return nil }

func TestSearchOverfetch(t *testing.T) {
	st := &fakeStore{}
	ix := NewIndex(&fakeEmbedder{}, st, config.RetrievalConfig{OverfetchFactor: 10})
	if _, err := ix.Search(context.Background(), "stainless cleaner", 5); err != nil {
		t.Fatal(err)
	}
	if st.gotLimit != 50 {
		t.Fatalf("expected over-fetch limit 50, got %d", st.gotLimit)
	}
}

func TestSearchNormalizesSentinels(t *testing.T) {
	neg := -1.0
	price := 9.99
	st := &fakeStore{rows: []schema.CatalogCandidate{
		{ID: "p1", Title: " Spray ", Price: &neg, Rating: &neg},
		{ID: "p2", Title: "Wipe", Price: &price},
	}}
	ix := NewIndex(&fakeEmbedder{}, st, config.RetrievalConfig{OverfetchFactor: 10})
	got, err := ix.Search(context.Background(), "cleaner", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Price != nil || got[0].Rating != nil {
		t.Fatal("negative sentinels must become nil")
	}
	if got[0].Title != "Spray" {
		t.Fatalf("title not trimmed: %q", got[0].Title)
	}
	if got[1].Price == nil || *got[1].Price != 9.99 {
		t.Fatal("valid price must survive normalization")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	emb := &fakeEmbedder{}
	ix := NewIndex(emb, &fakeStore{}, config.RetrievalConfig{})
	got, err := ix.Search(context.Background(), "   ", 5)
	if err != nil || got != nil {
		t.Fatalf("blank query should return nothing, got %v, %v", got, err)
	}
	if emb.calls != 0 {
		t.Fatal("blank query must not reach the embedder")
	}
}

func TestSearchStoreError(t *testing.T) {
	st := &fakeStore{err: schema.ErrIndexUnavailable}
	ix := NewIndex(&fakeEmbedder{}, st, config.RetrievalConfig{})
	if _, err := ix.Search(context.Background(), "cleaner", 5); !errors.Is(err, schema.ErrIndexUnavailable) {
		t.Fatalf("expected index unavailable, got %v", err)
	}
}
