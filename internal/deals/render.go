package deals

import (
	_ "embed"
	"html"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"poolpower-site/internal/types"
)

// Values used when a column is missing from the record.
const (
	DefaultDealID      = "N/A"
	DefaultItemName    = "Unnamed Deal"
	DefaultDescription = "No description available."
	DefaultTargetQty   = "N/A"
	DefaultPrice       = "N/A"
	DefaultImageURL    = ""
)

//go:embed fragment.html
var fragmentSrc string

var fragmentTpl = template.Must(template.New("deal").Parse(fragmentSrc))

type fragmentView struct {
	DealID      string
	ItemName    string
	Description string
	TargetQty   string
	Price       string
	ImageURL    string
	ContactID   string
}

// Renderer produces one fragment per deal. ContactID is embedded in every
// fragment's button. Values are interpolated verbatim unless EscapeHTML is set.
type Renderer struct {
	ContactID  string
	EscapeHTML bool
}

func NewRenderer(contactID string, escapeHTML bool) Renderer {
	return Renderer{ContactID: contactID, EscapeHTML: escapeHTML}
}

// Render never fails; absent columns fall back to the package defaults.
func (r Renderer) Render(rec types.DealRecord) types.Fragment {
	view := fragmentView{
		DealID:      r.value(rec, types.FieldDealID, DefaultDealID),
		ItemName:    r.value(rec, types.FieldItemName, DefaultItemName),
		Description: r.value(rec, types.FieldDescription, DefaultDescription),
		TargetQty:   r.value(rec, types.FieldTargetQty, DefaultTargetQty),
		Price:       r.value(rec, types.FieldPrice, DefaultPrice),
		ImageURL:    r.value(rec, types.FieldImageURL, DefaultImageURL),
		ContactID:   r.ContactID,
	}

	var b strings.Builder
	// The view holds only strings and the builder cannot fail.
	_ = fragmentTpl.Execute(&b, view)
	return types.Fragment(b.String())
}

// RenderAll renders records in order.
func (r Renderer) RenderAll(records []types.DealRecord) []types.Fragment {
	return lo.Map(records, func(rec types.DealRecord, _ int) types.Fragment {
		return r.Render(rec)
	})
}

func (r Renderer) value(rec types.DealRecord, field, def string) string {
	v := rec.GetOr(field, def)
	if r.EscapeHTML {
		return html.EscapeString(v)
	}
	return v
}
