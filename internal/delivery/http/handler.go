package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmind/backend/internal/domain"
	"github.com/shopmind/backend/internal/usecase"
)

// maxDiagnosticLength bounds the error excerpt leaked into apology answers
const maxDiagnosticLength = 100

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat *usecase.ChatService
	sync *usecase.SyncService
	cart *usecase.CartService
}

// NewHandler creates a new HTTP handler
func NewHandler(chat *usecase.ChatService, sync *usecase.SyncService, cart *usecase.CartService) *Handler {
	return &Handler{
		chat: chat,
		sync: sync,
		cart: cart,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopmind-backend",
		"version": "1.0.0",
	})
}

// Chat answers one shopping question
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query provided"})
		return
	}

	resp, err := h.chat.Answer(c.Request.Context(), req.Query, req.History)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, domain.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query provided"})
	case errors.Is(err, domain.ErrUnderstandingFailed):
		// Degraded apology answer built by the service
		c.JSON(http.StatusInternalServerError, resp)
	default:
		log.Printf("[HTTP] Chat request failed: %v", err)
		c.JSON(http.StatusInternalServerError, apologyResponse(err))
	}
}

// Sync triggers one catalog ingestion run. Authorization happens in
// middleware before this handler is reached.
func (h *Handler) Sync(c *gin.Context) {
	report, err := h.sync.Sync(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Sync failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Sync complete. Fetched: %d, Processed: %d, Errors: %d",
			report.Fetched, report.Processed, report.Errors),
	})
}

// addToCartRequest is the inbound cart payload
type addToCartRequest struct {
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a variant to a cart, creating the cart when none is given
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "variantId is required"})
		return
	}

	result, err := h.cart.AddToCart(c.Request.Context(), req.CartID, req.VariantID, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "variantId is required"})
	default:
		log.Printf("[HTTP] Cart request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}

// SuggestQuestion returns one premade question for the chat window
func (h *Handler) SuggestQuestion(c *gin.Context) {
	question, err := h.chat.SuggestQuestion(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Question generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}

// apologyResponse converts an uncaught fault into a generic answer carrying
// only a short truncated diagnostic reference, never the raw error text.
func apologyResponse(err error) *domain.ChatResponse {
	ref := "unknown error"
	if err != nil {
		ref = err.Error()
	}
	if len(ref) > maxDiagnosticLength {
		ref = ref[:maxDiagnosticLength]
	}

	return &domain.ChatResponse{
		AIUnderstanding: "An error occurred.",
		Advice:          fmt.Sprintf("Sorry, I encountered a problem processing your request. Please try again later. (Ref: %s)", ref),
	}
}
