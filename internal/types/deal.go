package types

// Column headers read from the deals tab.
const (
	FieldDealID      = "Deal ID"
	FieldItemName    = "Item Name"
	FieldDescription = "Short Description"
	FieldTargetQty   = "Target Qty"
	FieldPrice       = "Est Price Per Item"
	FieldImageURL    = "Image URL"
	FieldIsActive    = "Is Active"
)

// DealRecord is one row of the deals tab keyed by header name.
// A missing key is legal; consumers fall back to their own defaults.
type DealRecord map[string]string

// Get returns the raw value for field and whether the column was present.
func (r DealRecord) Get(field string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[field]
	return v, ok
}

// GetOr returns the raw value for field, or def when the column is absent.
func (r DealRecord) GetOr(field, def string) string {
	if v, ok := r.Get(field); ok {
		return v
	}
	return def
}

// Fragment is the HTML block rendered for one active deal.
type Fragment string

// Page is the final document produced from the page template.
type Page string
