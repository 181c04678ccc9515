package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contractoros/backend/internal/domain"
	"github.com/contractoros/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver   *usecase.IntentResolver
	pricing    *usecase.PricingService
	quotes     *usecase.QuoteService
	offerLimit int
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver *usecase.IntentResolver, pricing *usecase.PricingService, quotes *usecase.QuoteService, offerLimit int) *Handler {
	return &Handler{
		resolver:   resolver,
		pricing:    pricing,
		quotes:     quotes,
		offerLimit: offerLimit,
	}
}

// normalizeRequest is the payload for material intent resolution.
type normalizeRequest struct {
	Text  string `json:"text" binding:"required"`
	Image []byte `json:"image,omitempty"`
	Zip   string `json:"zip"`
}

// pricesRequest is the payload for multi-source price aggregation.
type pricesRequest struct {
	Items []domain.LineItem `json:"items" binding:"required"`
	Zip   string            `json:"zip" binding:"required"`
}

// quoteRequest is the payload for quote computation.
type quoteRequest struct {
	Items     []domain.LineItem `json:"items" binding:"required"`
	MarkupPct float64           `json:"markup_pct"`
	TaxPct    float64           `json:"tax_pct"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "contractoros-backend",
		"version": "1.0.0",
	})
}

// Normalize resolves free text (or an attached image) into quantified
// line items. Unresolvable lines are dropped, never an error.
func (h *Handler) Normalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	items := h.resolver.Resolve(c.Request.Context(), req.Text, req.Image)
	if items == nil {
		items = []domain.LineItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Prices fans out each item to all configured providers and returns
// ranked offers per item. Backend failures degrade to empty offer lists.
func (h *Handler) Prices(c *gin.Context) {
	var req pricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	zip := trimZip(req.Zip)
	results := h.pricing.PriceItems(c.Request.Context(), req.Items, zip, h.offerLimit)

	c.JSON(http.StatusOK, gin.H{"results": results, "zip": zip})
}

// Quote computes the markup/tax-adjusted quote from resolved items using
// catalog baseline prices.
func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	quote := h.quotes.ComputeQuote(req.Items, req.MarkupPct, req.TaxPct)
	c.JSON(http.StatusOK, quote)
}

// trimZip normalizes a request zip to its first five characters.
func trimZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if len(zip) > 5 {
		return zip[:5]
	}
	return zip
}
