package domain

// Quote is the markup/tax-adjusted total for a set of line items.
// All arithmetic is plain float64 with no internal rounding; presentation
// rounding belongs to the caller.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Markup   float64 `json:"markup"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
