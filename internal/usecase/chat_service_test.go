package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopmind/backend/internal/domain"
)

// fakeUnderstander returns a canned understanding and records the inputs
type fakeUnderstander struct {
	understanding *domain.Understanding
	err           error
	question      string
	questionErr   error

	gotQuery   string
	gotHistory []domain.ChatTurn
	calls      int
}

func (f *fakeUnderstander) Understand(ctx context.Context, query string, history []domain.ChatTurn) (*domain.Understanding, error) {
	f.calls++
	f.gotQuery = query
	f.gotHistory = history
	return f.understanding, f.err
}

func (f *fakeUnderstander) SuggestQuestion(ctx context.Context) (string, error) {
	return f.question, f.questionErr
}

func understanding(keywords string) *domain.Understanding {
	return &domain.Understanding{
		AIUnderstanding: "Looking for a rose lip tint.",
		Advice:          "A sheer tint works well for daily wear.",
		SearchKeywords:  keywords,
	}
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty query before any downstream call", func(t *testing.T) {
		u := &fakeUnderstander{}
		index := newFakeIndex()
		svc := NewChatService(u, NewRetrievalService(index, RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "   ", nil)

		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery", err)
		}
		if resp != nil {
			t.Errorf("response = %+v, want nil", resp)
		}
		if u.calls != 0 || len(index.queries) != 0 {
			t.Error("downstream collaborators were called for an empty query")
		}
	})

	t.Run("degrades when understanding fails", func(t *testing.T) {
		u := &fakeUnderstander{err: errors.New("provider timeout")}
		svc := NewChatService(u, NewRetrievalService(newFakeIndex(), RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "rose lip tint", nil)

		if !errors.Is(err, domain.ErrUnderstandingFailed) {
			t.Errorf("error = %v, want ErrUnderstandingFailed", err)
		}
		if resp == nil {
			t.Fatal("expected a degraded response alongside the error")
		}
		if resp.AIUnderstanding != understandingFailedSummary || resp.Advice != understandingFailedAdvice {
			t.Errorf("degraded response = %+v", resp)
		}
	})

	t.Run("attaches a product card on an accepted match", func(t *testing.T) {
		u := &fakeUnderstander{understanding: understanding("lip tint rose")}
		index := newFakeIndex()
		index.respond("lip tint rose", "Rose Lip Tint", 0.85)
		svc := NewChatService(u, NewRetrievalService(index, RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "do you have a rose lip tint", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.ProductCard == nil {
			t.Fatal("expected a product card")
		}
		if resp.ProductCard.Title != "Rose Lip Tint" {
			t.Errorf("card title = %q", resp.ProductCard.Title)
		}
		if resp.ProductCard.Description != productCardDescription {
			t.Errorf("card description = %q", resp.ProductCard.Description)
		}
		if resp.ProductCard.VariantID != "gid://shopify/ProductVariant/456" {
			t.Errorf("card variantId = %q", resp.ProductCard.VariantID)
		}
		if resp.Advice != "A sheer tint works well for daily wear." {
			t.Errorf("advice was altered on a match: %q", resp.Advice)
		}
	})

	t.Run("appends the near-miss note below threshold", func(t *testing.T) {
		u := &fakeUnderstander{understanding: understanding("lip tint rose")}
		index := newFakeIndex()
		index.respond("lip tint rose", "Rose Lip Tint", 0.55)
		svc := NewChatService(u, NewRetrievalService(index, RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "do you have a rose lip tint", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.ProductCard != nil {
			t.Errorf("unexpected product card: %+v", resp.ProductCard)
		}
		want := "A sheer tint works well for daily wear." + nearMissNote
		if resp.Advice != want {
			t.Errorf("advice = %q, want %q", resp.Advice, want)
		}
	})

	t.Run("appends the no-results note when nothing is found", func(t *testing.T) {
		u := &fakeUnderstander{understanding: understanding("lip tint rose")}
		svc := NewChatService(u, NewRetrievalService(newFakeIndex(), RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "do you have a rose lip tint", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "A sheer tint works well for daily wear." + noResultsNote
		if resp.Advice != want {
			t.Errorf("advice = %q, want %q", resp.Advice, want)
		}
	})

	t.Run("treats an index failure as no results, not a fault", func(t *testing.T) {
		u := &fakeUnderstander{understanding: understanding("lip tint rose")}
		index := newFakeIndex()
		index.errs["lip tint rose"] = errors.New("index unavailable")
		index.errs["do you have a rose lip tint"] = errors.New("index unavailable")
		svc := NewChatService(u, NewRetrievalService(index, RetrievalConfig{}))

		resp, err := svc.Answer(ctx, "do you have a rose lip tint", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.ProductCard != nil {
			t.Errorf("unexpected product card: %+v", resp.ProductCard)
		}
		want := "A sheer tint works well for daily wear." + noResultsNote
		if resp.Advice != want {
			t.Errorf("advice = %q, want %q", resp.Advice, want)
		}
	})

	t.Run("forwards history to the understanding call", func(t *testing.T) {
		u := &fakeUnderstander{understanding: understanding("")}
		svc := NewChatService(u, NewRetrievalService(newFakeIndex(), RetrievalConfig{}))

		history := []domain.ChatTurn{{Role: "user", Text: "hi"}, {Role: "bot", Text: "hello"}}
		if _, err := svc.Answer(ctx, "rose lip tint", history); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(u.gotHistory) != 2 {
			t.Errorf("history length = %d, want 2", len(u.gotHistory))
		}
		if u.gotQuery != "rose lip tint" {
			t.Errorf("query = %q", u.gotQuery)
		}
	})
}

func TestSuggestQuestion(t *testing.T) {
	t.Run("delegates to the understanding collaborator", func(t *testing.T) {
		u := &fakeUnderstander{question: "What shade suits warm undertones?"}
		svc := NewChatService(u, NewRetrievalService(newFakeIndex(), RetrievalConfig{}))

		got, err := svc.SuggestQuestion(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "What shade suits warm undertones?" {
			t.Errorf("question = %q", got)
		}
	})

	t.Run("propagates provider failure", func(t *testing.T) {
		u := &fakeUnderstander{questionErr: errors.New("provider down")}
		svc := NewChatService(u, NewRetrievalService(newFakeIndex(), RetrievalConfig{}))

		if _, err := svc.SuggestQuestion(context.Background()); err == nil {
			t.Error("expected an error")
		}
	})
}
