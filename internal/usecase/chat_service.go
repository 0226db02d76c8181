package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/shopmind/backend/internal/domain"
)

// productCardDescription is the generic copy shown on a matched product card
const productCardDescription = "Found product related to your query."

// Fallback notes appended to the understanding advice, never replacing it
const (
	nearMissNote    = "\n(I found something similar, but wasn't sure if it was the best match. Could you be more specific?)"
	noResultsNote   = "\n(I couldn't find specific products matching your request in the catalog right now.)"
	searchIssueNote = "\n(Note: There was an issue searching for products.)"
)

// Degraded copy used when the understanding call fails entirely
const (
	understandingFailedSummary = "I had trouble processing that request."
	understandingFailedAdvice  = "Could you please try rephrasing your question or try again shortly?"
)

// ChatService answers one shopping question: the understanding collaborator
// interprets the query, the retrieval engine resolves it against the catalog
// index, and the two results are composed into a single structured answer.
type ChatService struct {
	understander domain.Understander
	retrieval    *RetrievalService
}

// NewChatService creates a new chat service with dependencies
func NewChatService(understander domain.Understander, retrieval *RetrievalService) *ChatService {
	return &ChatService{
		understander: understander,
		retrieval:    retrieval,
	}
}

// Answer processes one chat request. An empty query is rejected before any
// downstream call. When the understanding call fails, a degraded apology
// answer is returned together with ErrUnderstandingFailed so the delivery
// layer can pick the right status code.
func (s *ChatService) Answer(ctx context.Context, query string, history []domain.ChatTurn) (*domain.ChatResponse, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, domain.ErrInvalidQuery
	}

	log.Printf("[CHAT] Processing query: %q", truncateForLog(trimmed))

	understanding, err := s.understander.Understand(ctx, trimmed, history)
	if err != nil || understanding == nil {
		log.Printf("[CHAT] Understanding call failed: %v", err)
		return &domain.ChatResponse{
			AIUnderstanding: understandingFailedSummary,
			Advice:          understandingFailedAdvice,
		}, domain.ErrUnderstandingFailed
	}

	resolution := s.retrieval.Resolve(ctx, trimmed, understanding.SearchKeywords)

	return s.compose(understanding, resolution, trimmed), nil
}

// compose merges the understanding output, the resolved match (or lack
// thereof), and a fallback note into the final answer.
func (s *ChatService) compose(u *domain.Understanding, res *Resolution, query string) *domain.ChatResponse {
	advice := u.Advice
	var card *domain.ProductCard

	switch {
	case res.Match != nil:
		card = &domain.ProductCard{
			Title:       res.Match.Metadata.Title,
			Description: productCardDescription,
			Price:       res.Match.Metadata.Price,
			Image:       res.Match.Metadata.ImageURL,
			LandingPage: res.Match.Metadata.ProductURL,
			VariantID:   res.Match.Metadata.VariantID,
		}
	case res.NearMiss != nil:
		advice += nearMissNote
	case strings.TrimSpace(u.SearchKeywords) != "" || query != "":
		advice += noResultsNote
	case res.SearchIssue:
		// Unreachable behind the input gate, which guarantees a non-empty
		// query; kept so an index outage is still mentioned if that ever changes.
		advice += searchIssueNote
	}

	return &domain.ChatResponse{
		AIUnderstanding: u.AIUnderstanding,
		ProductCard:     card,
		Advice:          advice,
	}
}

// SuggestQuestion asks the understanding collaborator for one premade
// question to surface in an idle chat window.
func (s *ChatService) SuggestQuestion(ctx context.Context) (string, error) {
	return s.understander.SuggestQuestion(ctx)
}
