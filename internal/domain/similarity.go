package domain

import "math/bits"

// HashBits is the fingerprint length of an ImageHash: an 8x8 average hash.
const HashBits = 64

// ImageHash is a 64-bit perceptual fingerprint of a listing image. Hashes of
// visually similar images differ in few bits, so Hamming distance is the
// comparison primitive.
type ImageHash uint64

// Distance returns the Hamming distance to another hash, in [0, HashBits].
func (h ImageHash) Distance(other ImageHash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// Similarity maps the Hamming distance to [0, 1], where identical hashes
// score 1.0 and maximally different hashes score 0.0.
func (h ImageHash) Similarity(other ImageHash) float64 {
	score := 1 - float64(h.Distance(other))/HashBits
	if score < 0 {
		return 0
	}
	return score
}

// SimilarityResult holds the three pairwise signals and their weighted
// composite for one compared pair.
type SimilarityResult struct {
	ComprehensiveScore float64 `json:"comprehensive_score"`
	ImageSimilarity    float64 `json:"image_similarity"`
	TitleSimilarity    float64 `json:"title_similarity"`
	PriceSimilarity    float64 `json:"price_similarity"`
}

// SimilarityWeights is the weight block reported in analysis summaries.
type SimilarityWeights struct {
	Image float64 `json:"image_similarity"`
	Title float64 `json:"title_similarity"`
	Price float64 `json:"price_similarity"`
}
