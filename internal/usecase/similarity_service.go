package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/listinglens/backend/internal/domain"
)

// Composite score weights. They sum to 1 and are not renormalized when the
// image signal is missing, so a pair without images can reach at most 0.6.
const (
	weightImage = 0.4
	weightTitle = 0.4
	weightPrice = 0.2
)

// Default scoring thresholds.
const (
	defaultBaseThreshold      = 0.5
	defaultRelaxedThreshold   = 0.4
	defaultMinTitleSimilarity = 0.3
	defaultMaxPriceDifference = 0.5
)

// strongSignalBar is the per-signal level at which title and price together
// justify the relaxed acceptance threshold.
const strongSignalBar = 0.8

// ScoringConfig holds the tunables for the similarity scorer and its quick
// filter. Zero fields fall back to defaults.
type ScoringConfig struct {
	BaseThreshold      float64
	RelaxedThreshold   float64
	MinTitleSimilarity float64
	MaxPriceDifference float64
}

// SimilarityService scores pairs of product records on image, title, and
// price signals, and gates expensive comparisons with a cheap pre-filter.
type SimilarityService struct {
	baseThreshold      float64
	relaxedThreshold   float64
	minTitleSimilarity float64
	maxPriceDifference float64
}

// NewSimilarityService creates a scorer with defaults applied for zero
// config fields.
func NewSimilarityService(config ScoringConfig) *SimilarityService {
	baseThreshold := config.BaseThreshold
	if baseThreshold <= 0 {
		baseThreshold = defaultBaseThreshold
	}

	relaxedThreshold := config.RelaxedThreshold
	if relaxedThreshold <= 0 {
		relaxedThreshold = defaultRelaxedThreshold
	}

	minTitleSimilarity := config.MinTitleSimilarity
	if minTitleSimilarity <= 0 {
		minTitleSimilarity = defaultMinTitleSimilarity
	}

	maxPriceDifference := config.MaxPriceDifference
	if maxPriceDifference <= 0 {
		maxPriceDifference = defaultMaxPriceDifference
	}

	return &SimilarityService{
		baseThreshold:      baseThreshold,
		relaxedThreshold:   relaxedThreshold,
		minTitleSimilarity: minTitleSimilarity,
		maxPriceDifference: maxPriceDifference,
	}
}

// Compare scores a candidate pair on all three signals. Hashes may be nil
// when an image was unavailable; the image signal then contributes zero
// without renormalizing the weights. A non-nil error means the computation
// itself failed, which callers must not confuse with a genuine zero score.
func (s *SimilarityService) Compare(a, b domain.ProductRecord, hashA, hashB *domain.ImageHash) (result domain.SimilarityResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.SimilarityResult{}
			err = fmt.Errorf("%w: %v", domain.ErrComparisonFailed, r)
		}
	}()

	imageSim := 0.0
	if hashA != nil && hashB != nil {
		imageSim = hashA.Similarity(*hashB)
	}

	titleSim := titleSimilarity(a.Title, b.Title)
	priceSim := priceSimilarity(a.PriceNumeric, b.PriceNumeric)

	return domain.SimilarityResult{
		ComprehensiveScore: weightImage*imageSim + weightTitle*titleSim + weightPrice*priceSim,
		ImageSimilarity:    imageSim,
		TitleSimilarity:    titleSim,
		PriceSimilarity:    priceSim,
	}, nil
}

// Threshold returns the acceptance threshold for a scored pair: the relaxed
// threshold when title and price are each strong evidence on their own, the
// base threshold otherwise.
func (s *SimilarityService) Threshold(result domain.SimilarityResult) float64 {
	if result.TitleSimilarity > strongSignalBar && result.PriceSimilarity > strongSignalBar {
		return s.relaxedThreshold
	}
	return s.baseThreshold
}

// ShouldCompare is the quick filter run before a full comparison: pairs with
// nearly disjoint titles, or known prices more than half apart, are not
// worth an image comparison. An unknown price on either side skips the price
// check. An internal failure passes the pair through; the full scorer is the
// safety net.
func (s *SimilarityService) ShouldCompare(a, b domain.ProductRecord) (pass bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Filter] pre-check failed, passing pair through: %v", r)
			pass = true
		}
	}()

	if titleSimilarity(a.Title, b.Title) < s.minTitleSimilarity {
		return false
	}

	if a.PriceNumeric > 0 && b.PriceNumeric > 0 {
		if priceGap(a.PriceNumeric, b.PriceNumeric) > s.maxPriceDifference {
			return false
		}
	}

	return true
}

// titleSimilarity is the Jaccard index over lowercase whitespace tokens.
// Two empty token sets have nothing in common and score zero.
func titleSimilarity(title1, title2 string) float64 {
	set1 := tokenSet(title1)
	set2 := tokenSet(title2)

	intersection := 0
	for token := range set1 {
		if set2[token] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// tokenSet lowercases a title and splits it into its distinct terms.
func tokenSet(title string) map[string]bool {
	tokens := strings.Fields(strings.ToLower(title))
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// priceSimilarity maps two prices to [0, 1] by their relative gap. A zero
// price means unknown, not free: any pair involving one scores zero.
func priceSimilarity(price1, price2 float64) float64 {
	if price1 == 0 || price2 == 0 {
		return 0.0
	}

	similarity := 1 - priceGap(price1, price2)
	if similarity < 0 {
		return 0.0
	}
	return similarity
}

// priceGap is the absolute price difference relative to the larger price.
// Both prices must be positive.
func priceGap(price1, price2 float64) float64 {
	maxPrice := price1
	if price2 > maxPrice {
		maxPrice = price2
	}

	diff := price1 - price2
	if diff < 0 {
		diff = -diff
	}

	return diff / maxPrice
}
