package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/shopmind/backend/internal/domain"
)

// Retrieval constants: only the single best neighbor is ever considered, and
// a candidate must score at least the threshold to be offered as a match.
const (
	defaultTopK                = 1
	defaultSimilarityThreshold = 0.70
)

// RetrievalConfig holds configuration for the staged retrieval engine
type RetrievalConfig struct {
	SimilarityThreshold float64
	TopK                int
}

// Resolution is the outcome of one staged retrieval pass. All index failures
// are absorbed before this point: the caller only ever sees a match, a
// sub-threshold near miss, or nothing.
type Resolution struct {
	Match       *domain.MatchCandidate // accepted candidate, nil if none cleared the threshold
	NearMiss    *domain.MatchCandidate // best surviving sub-threshold candidate, if any
	SearchIssue bool                   // an index query failed during resolution
}

// RetrievalService resolves a user query to at most one catalog product by
// running up to two similarity searches against the vector index: first over
// the keywords the understanding step extracted, then over the raw query.
type RetrievalService struct {
	index     domain.VectorIndex
	threshold float64
	topK      int
}

// NewRetrievalService creates a new staged retrieval engine
func NewRetrievalService(index domain.VectorIndex, config RetrievalConfig) *RetrievalService {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}

	topK := config.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	return &RetrievalService{
		index:     index,
		threshold: threshold,
		topK:      topK,
	}
}

// Resolve runs the two-stage, threshold-gated resolution.
//
// Stage A searches the extracted keywords (skipped when empty). A Stage A
// candidate at or above the threshold is accepted immediately without running
// Stage B, bounding the common case to one index lookup. Otherwise Stage B
// searches the raw query; it displaces Stage A only when it clears the
// threshold AND strictly beats Stage A's score — an equal score keeps the
// keyword-derived candidate. A below-threshold Stage A candidate is still
// carried forward as "keyword-kept" so the caller can distinguish a near miss
// from an empty result.
func (s *RetrievalService) Resolve(ctx context.Context, query, keywords string) *Resolution {
	res := &Resolution{}

	var top *domain.MatchCandidate
	if strings.TrimSpace(keywords) != "" {
		top = s.search(ctx, keywords, domain.StageKeyword, res)
	} else {
		log.Printf("[RETRIEVAL] Skipping keyword stage: no keywords extracted")
	}

	if top == nil || top.Score < s.threshold {
		direct := s.search(ctx, query, domain.StageDirect, res)

		if direct != nil && direct.Score >= s.threshold {
			if top == nil || direct.Score > top.Score {
				top = direct
			} else {
				top.Stage = domain.StageKeywordKept
			}
		} else if top != nil {
			top.Stage = domain.StageKeywordKept
		}
	}

	switch {
	case top == nil:
		log.Printf("[RETRIEVAL] No candidate survived for query %q", truncateForLog(query))
	case top.Score >= s.threshold:
		log.Printf("[RETRIEVAL] Match %q accepted (stage: %s, score: %.4f)",
			top.Metadata.Title, top.Stage, top.Score)
		res.Match = top
	default:
		log.Printf("[RETRIEVAL] Best candidate %q below threshold %.2f (stage: %s, score: %.4f)",
			top.Metadata.Title, s.threshold, top.Stage, top.Score)
		res.NearMiss = top
	}

	return res
}

// search runs one similarity search and validates the top hit's metadata.
// Empty or whitespace-only text is a no-op. Index failures are logged,
// recorded on the resolution, and treated as "no candidate" for the stage;
// they never abort the overall resolution.
func (s *RetrievalService) search(ctx context.Context, text, stage string, res *Resolution) *domain.MatchCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches, err := s.index.Query(ctx, text, s.topK, true)
	if err != nil {
		log.Printf("[RETRIEVAL] Index query failed (stage: %s): %v", stage, err)
		res.SearchIssue = true
		return nil
	}
	if len(matches) == 0 {
		log.Printf("[RETRIEVAL] No results (stage: %s, text: %q)", stage, truncateForLog(text))
		return nil
	}

	top := matches[0]
	metadata, err := ValidateProductMetadata(top.Metadata)
	if err != nil {
		log.Printf("[RETRIEVAL] Discarding hit %q with invalid metadata (stage: %s)", top.ID, stage)
		return nil
	}

	return &domain.MatchCandidate{
		ID:       top.ID,
		Score:    top.Score,
		Metadata: *metadata,
		Stage:    stage,
	}
}

// truncateForLog bounds free text in log lines
func truncateForLog(s string) string {
	const max = 70
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
