package domain

// ChatTurn is one prior message in the rolling conversation history.
// Role is "user", "bot", or "model"; turns with empty text are dropped
// before the history reaches the understanding call.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the inbound chat payload
type ChatRequest struct {
	Query   string     `json:"query" binding:"required"`
	History []ChatTurn `json:"history,omitempty"`
}

// Understanding is the structured output of the language-understanding call
type Understanding struct {
	AIUnderstanding string `json:"ai_understanding"`
	Advice          string `json:"advice"`
	SearchKeywords  string `json:"search_keywords"`
}

// ProductCard is the single matched product offered back to the user
type ProductCard struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Image       *string `json:"image"`
	LandingPage string  `json:"landing_page"`
	VariantID   string  `json:"variantId"`
}

// ChatResponse is the final per-request answer. ProductCard is present only
// when a candidate cleared the acceptance threshold; Advice carries the
// understanding advice plus any appended fallback note.
type ChatResponse struct {
	AIUnderstanding string       `json:"ai_understanding"`
	ProductCard     *ProductCard `json:"product_card,omitempty"`
	Advice          string       `json:"advice"`
}

// SyncReport carries the counters of one full ingestion run
type SyncReport struct {
	Fetched   int `json:"fetched"`
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

// CartUserError is a user-facing storefront cart error (field + message).
// These are data for the caller to display, never raised as faults.
type CartUserError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// CartResult is the outcome of a cart create/add operation
type CartResult struct {
	CartID      string          `json:"cartId"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	UserErrors  []CartUserError `json:"userErrors"`
}
