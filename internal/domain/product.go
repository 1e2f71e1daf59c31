package domain

// ProductRecord is one normalized listing row from an uploaded research
// export. The raw scraped strings are kept verbatim; the numeric fields are
// derived once at parse time and never recomputed.
type ProductRecord struct {
	ImageURL      string  `json:"image_url"`
	ProductURL    string  `json:"product_url"`
	Title         string  `json:"title"`
	PriceRaw      string  `json:"price_without_tax"`
	SalesVolume   string  `json:"sales_volume"`
	LastSoldTime  string  `json:"last_sold_time"`
	SourceFile    string  `json:"source_file"`
	PriceNumeric  float64 `json:"price_numeric"`
	VolumeNumeric int     `json:"volume_numeric"`
	TotalSales    float64 `json:"total_sales"`
}

// UploadedFile is one file received at the analysis boundary.
type UploadedFile struct {
	Name    string
	Content []byte
}

// GroupMember ties a grouped record back to its position in the normalized
// input. The first member of a group is the seed and carries no similarity
// details; every other member carries its scores against that seed.
type GroupMember struct {
	Product    ProductRecord     `json:"product"`
	Index      int               `json:"index"`
	Similarity *SimilarityResult `json:"similarity_details,omitempty"`
}

// ProductGroup is an ordered set of listings judged to be the same product.
type ProductGroup []GroupMember

// AnalysisResult is the full outcome of one analysis batch.
type AnalysisResult struct {
	TotalProducts int                     `json:"total_products"`
	Products      []ProductRecord         `json:"products"`
	SimilarGroups map[string]ProductGroup `json:"similar_groups"`
	Analysis      SimilarityAnalysis      `json:"similarity_analysis"`
}

// SimilarityAnalysis summarizes the scoring configuration a batch ran with
// and how much of the input ended up grouped.
type SimilarityAnalysis struct {
	Threshold        float64           `json:"threshold"`
	Algorithm        string            `json:"algorithm"`
	Weights          SimilarityWeights `json:"weights"`
	SpecialRules     string            `json:"special_rules"`
	GroupsFound      int               `json:"groups_found"`
	ProductsInGroups int               `json:"products_in_groups"`
}
