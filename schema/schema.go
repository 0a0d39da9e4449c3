package schema

// IntentType tags the active variant of an Intent.
type IntentType string

const (
	IntentGreeting     IntentType = "greeting"
	IntentOutOfDomain  IntentType = "out_of_domain"
	IntentProductQuery IntentType = "product_query"
)

// Constraints holds the structured filters extracted from a query.
// Optional fields use pointers; a nil Budget means no price ceiling.
// Produced once by the classifier and read-only downstream.
type Constraints struct {
	Budget   *float64 `json:"budget,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Material string   `json:"material,omitempty"`
	Category string   `json:"category,omitempty"`
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.Budget == nil && c.Brand == "" && c.Material == "" && c.Category == ""
}

// Intent is the classification outcome for a query. Exactly one variant
// (Type) is active per request. ParseError and Raw are populated when the
// classifier's structured output was malformed and the intent was degraded
// to a deterministic fallback.
type Intent struct {
	Type           IntentType  `json:"intent_type"`
	ProductType    string      `json:"product_type,omitempty"`
	Constraints    Constraints `json:"constraints"`
	NeedsLivePrice bool        `json:"needs_live_price"`
	Confidence     float64     `json:"confidence"`
	ParseError     bool        `json:"parse_error,omitempty"`
	Raw            string      `json:"-"`
}

// Source identifies a retrieval data source in a Plan.
type Source string

const (
	SourceCatalog Source = "catalog_search"
	SourceLive    Source = "live_search"
)

// ConflictPolicy decides which source's price wins when both catalog and
// live data exist for the same product.
type ConflictPolicy string

const (
	// WebOverwritesCatalog: live data is assumed fresher, its price wins.
	WebOverwritesCatalog ConflictPolicy = "web_price_overwrites"
	// PreferCatalog: the private catalog price is kept.
	PreferCatalog ConflictPolicy = "prefer_private_price"
)

// Plan describes which sources to query and which fields the answer needs.
// Immutable after creation.
type Plan struct {
	Sources        []Source       `json:"sources"`
	FieldsNeeded   []string       `json:"fields_needed"`
	ConflictPolicy ConflictPolicy `json:"conflict_policy"`
}

// HasSource reports whether the plan includes the given source.
func (p Plan) HasSource(s Source) bool {
	for _, src := range p.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// CatalogCandidate is a product returned by the embedding index, carrying
// the stored metadata plus the similarity distance (lower = more similar).
// A nil Price or Rating is the only representation of absence; negative
// sentinels from older index versions are converted to nil at the adapter
// boundary and never travel further.
type CatalogCandidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Features    string   `json:"features,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	ProductURL  string   `json:"product_url,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Distance    float64  `json:"-"`
}

// DocID formats the citation identifier for a catalog candidate.
func (c CatalogCandidate) DocID() string { return "products::" + c.ID }

// WebResult is a normalized live web search hit. Price is nil unless a
// price could be extracted from the result.
type WebResult struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Snippet string   `json:"snippet"`
	Price   *float64 `json:"price"`
}

// RankedProduct is the externally exposed form of a candidate after
// filtering, merge and rerank. Internal-only fields (distance) are
// stripped.
type RankedProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	ProductURL  string   `json:"product_url,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Ranked converts a candidate into its external form.
func (c CatalogCandidate) Ranked() RankedProduct {
	return RankedProduct{
		ID:          c.ID,
		Title:       c.Title,
		Brand:       c.Brand,
		Category:    c.Category,
		Subcategory: c.Subcategory,
		Price:       c.Price,
		Rating:      c.Rating,
		ProductURL:  c.ProductURL,
		ImageURL:    c.ImageURL,
	}
}

// Citations lists the grounding sources for an answer.
type Citations struct {
	Catalog []string `json:"catalog"`
	Web     []string `json:"web"`
}

// Response is the normalized terminal payload of a pipeline run. It is
// always produced, even on partial failure.
type Response struct {
	Query     string          `json:"query"`
	Answer    string          `json:"answer"`
	Products  []RankedProduct `json:"products"`
	Citations Citations       `json:"citations"`
}

// Float64Ptr returns a pointer to v. Convenience for optional fields.
func Float64Ptr(v float64) *float64 { return &v }
