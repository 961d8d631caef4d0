package deals

import (
	"strings"

	"github.com/samber/lo"

	"poolpower-site/internal/types"
)

// Template tokens.
const (
	DealsPlaceholder   = "[DEALS_PLACEHOLDER]"
	ContactPlaceholder = "[YourPoolPowerNumber]"
)

// JoinFragments concatenates fragments with a single newline.
func JoinFragments(fragments []types.Fragment) string {
	return strings.Join(lo.Map(fragments, func(f types.Fragment, _ int) string {
		return string(f)
	}), "\n")
}

// Assemble substitutes the joined fragments and the contact identifier into
// tmpl. Both tokens are replaced in one pass over the template, so text that
// comes from the fragments is never rescanned. An empty fragment list yields
// ErrNoActiveDeals and no page.
func Assemble(tmpl string, fragments []types.Fragment, contactID string) (types.Page, error) {
	if len(fragments) == 0 {
		return "", types.ErrNoActiveDeals
	}

	r := strings.NewReplacer(
		DealsPlaceholder, JoinFragments(fragments),
		ContactPlaceholder, contactID,
	)
	return types.Page(r.Replace(tmpl)), nil
}
