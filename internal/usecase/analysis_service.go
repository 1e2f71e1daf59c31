package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/listinglens/backend/internal/domain"
)

// Summary strings reported with every analysis result.
const (
	algorithmName   = "comprehensive_scoring"
	specialRuleNote = "Lower threshold (0.4) for high title+price similarity"
)

// AnalysisService runs the full dedup pipeline: normalize the uploaded CSV
// exports, resolve image hashes concurrently, then cluster sequentially.
type AnalysisService struct {
	hasher  domain.ImageHasher
	scorer  *SimilarityService
	cluster *ClusterService
}

// NewAnalysisService wires the pipeline with its image hasher and scoring
// configuration.
func NewAnalysisService(hasher domain.ImageHasher, config ScoringConfig) *AnalysisService {
	scorer := NewSimilarityService(config)
	return &AnalysisService{
		hasher:  hasher,
		scorer:  scorer,
		cluster: NewClusterService(scorer),
	}
}

// Analyze parses every uploaded CSV file into product records and groups the
// listings that describe the same product. ErrNoFiles and ErrNoProducts
// report unusable input; every failure inside a batch is logged and absorbed
// so the batch itself always completes.
func (s *AnalysisService) Analyze(ctx context.Context, files []domain.UploadedFile) (*domain.AnalysisResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	var products []domain.ProductRecord
	for _, file := range files {
		if !strings.HasSuffix(file.Name, ".csv") {
			log.Printf("[Analysis] skipping non-CSV upload %q", file.Name)
			continue
		}
		records := ParseProducts(file.Content, file.Name)
		log.Printf("[Analysis] %s: parsed %d records", file.Name, len(records))
		products = append(products, records...)
	}

	if len(products) == 0 {
		return nil, domain.ErrNoProducts
	}

	// Phase 1: resolve hashes for every product image up front, concurrently.
	urls := make([]string, 0, len(products))
	for _, product := range products {
		if product.ImageURL != "" {
			urls = append(urls, product.ImageURL)
		}
	}
	hashes := s.hasher.HashImages(ctx, urls)
	log.Printf("[Analysis] resolved %d image hashes for %d records with images", len(hashes), len(urls))

	// Phase 2: sequential pairwise clustering over the combined batch.
	groups := s.cluster.BuildGroups(products, hashes)

	productsInGroups := 0
	for _, group := range groups {
		productsInGroups += len(group)
	}
	log.Printf("[Analysis] %d products, %d groups, %d products grouped",
		len(products), len(groups), productsInGroups)

	return &domain.AnalysisResult{
		TotalProducts: len(products),
		Products:      products,
		SimilarGroups: groups,
		Analysis: domain.SimilarityAnalysis{
			Threshold: s.scorer.baseThreshold,
			Algorithm: algorithmName,
			Weights: domain.SimilarityWeights{
				Image: weightImage,
				Title: weightTitle,
				Price: weightPrice,
			},
			SpecialRules:     specialRuleNote,
			GroupsFound:      len(groups),
			ProductsInGroups: productsInGroups,
		},
	}, nil
}
