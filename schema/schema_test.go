package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintsEmpty(t *testing.T) {
	assert.True(t, Constraints{}.Empty())
	assert.False(t, Constraints{Brand: "EcoShine"}.Empty())
	assert.False(t, Constraints{Budget: Float64Ptr(10)}.Empty())
}

func TestPlanHasSource(t *testing.T) {
	p := Plan{Sources: []Source{SourceCatalog}}
	assert.True(t, p.HasSource(SourceCatalog))
	assert.False(t, p.HasSource(SourceLive))
}

func TestDocID(t *testing.T) {
	c := CatalogCandidate{ID: "b07xyz"}
	assert.Equal(t, "products::b07xyz", c.DocID())
}

func TestRankedStripsDistance(t *testing.T) {
	c := CatalogCandidate{ID: "p1", Title: "Spray", Price: Float64Ptr(9.99), Distance: 0.42}
	r := c.Ranked()
	require.Equal(t, "p1", r.ID)
	require.NotNil(t, r.Price)
	assert.Equal(t, 9.99, *r.Price)
}

func TestResponseNormalizesNilSlices(t *testing.T) {
	pc := &PipelineContext{Query: "hi", Answer: "hello"}
	resp := pc.Response()
	require.NotNil(t, resp.Products)
	require.NotNil(t, resp.Citations.Catalog)
	require.NotNil(t, resp.Citations.Web)
	assert.Empty(t, resp.Products)
}

func TestWarnAccumulates(t *testing.T) {
	pc := &PipelineContext{}
	pc.Warn("a")
	pc.Warn("b")
	assert.Equal(t, []string{"a", "b"}, pc.Warnings)
}
