package usecase

import (
	"log"
	"strconv"

	"github.com/listinglens/backend/internal/domain"
)

// PairScorer scores candidate pairs for the cluster builder. A Compare error
// reports a failed computation, not a dissimilar pair; the builder logs it
// and scores the pair zero so a batch always completes.
type PairScorer interface {
	ShouldCompare(a, b domain.ProductRecord) bool
	Compare(a, b domain.ProductRecord, hashA, hashB *domain.ImageHash) (domain.SimilarityResult, error)
	Threshold(result domain.SimilarityResult) float64
}

// ClusterService groups product records by greedy seed expansion: each
// not-yet-grouped record, in input order, seeds a group and claims every
// later record the scorer accepts against it. Candidates are compared to the
// seed only, never to each other, so input order is part of the contract.
type ClusterService struct {
	scorer PairScorer
}

// NewClusterService creates a cluster builder on top of the given scorer.
func NewClusterService(scorer PairScorer) *ClusterService {
	return &ClusterService{scorer: scorer}
}

// BuildGroups partitions records into similarity groups. Records without an
// entry in hashes are compared on title and price alone. Groups that stay
// singletons are dropped; surviving groups are keyed "0", "1", ... in the
// order their seeds appear in the input.
func (c *ClusterService) BuildGroups(records []domain.ProductRecord, hashes map[string]domain.ImageHash) map[string]domain.ProductGroup {
	groups := make(map[string]domain.ProductGroup)
	processed := make(map[int]bool, len(records))
	groupID := 0

	for i, seed := range records {
		if processed[i] {
			continue
		}

		group := domain.ProductGroup{{Product: seed, Index: i}}
		processed[i] = true
		seedHash := hashFor(hashes, seed)

		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}
			candidate := records[j]

			if !c.scorer.ShouldCompare(seed, candidate) {
				continue
			}

			result, err := c.scorer.Compare(seed, candidate, seedHash, hashFor(hashes, candidate))
			if err != nil {
				log.Printf("[Cluster] comparison failed for %q <-> %q: %v",
					titlePrefix(seed.Title), titlePrefix(candidate.Title), err)
				result = domain.SimilarityResult{}
			}

			if result.ComprehensiveScore >= c.scorer.Threshold(result) {
				similarity := result
				group = append(group, domain.GroupMember{
					Product:    candidate,
					Index:      j,
					Similarity: &similarity,
				})
				processed[j] = true

				log.Printf("[Cluster] matched %q <-> %q (score=%.3f image=%.3f title=%.3f price=%.3f)",
					titlePrefix(seed.Title), titlePrefix(candidate.Title),
					result.ComprehensiveScore, result.ImageSimilarity,
					result.TitleSimilarity, result.PriceSimilarity)
			}
		}

		if len(group) > 1 {
			groups[strconv.Itoa(groupID)] = group
			groupID++
		}
	}

	return groups
}

// hashFor looks up a record's image hash; nil when the record has no image
// URL or the image was never resolved.
func hashFor(hashes map[string]domain.ImageHash, record domain.ProductRecord) *domain.ImageHash {
	if record.ImageURL == "" {
		return nil
	}
	hash, ok := hashes[record.ImageURL]
	if !ok {
		return nil
	}
	return &hash
}

// titlePrefix shortens a title to its first 50 characters for log lines.
func titlePrefix(title string) string {
	runes := []rune(title)
	if len(runes) <= 50 {
		return title
	}
	return string(runes[:50]) + "..."
}
