// Package published reads deal rows from a spreadsheet that has been
// published to the web as HTML.
package published

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/source/grid"
	"poolpower-site/internal/types"
)

const userAgent = "Mozilla/5.0 (compatible; poolpower-site/1.0)"

// Selectors locate the tab menu and table cells on the published page.
type Selectors struct {
	TabMenuItem string
	Table       string
	Row         string
	Cell        string
}

// DefaultSelectors match the markup of a Google Sheets "publish to web" page.
func DefaultSelectors() Selectors {
	return Selectors{
		TabMenuItem: "#sheet-menu li",
		Table:       "table",
		Row:         "tbody tr",
		Cell:        "td",
	}
}

// Scraper fetches the published HTML with a colly collector and walks the
// table with goquery.
type Scraper struct {
	timeout   time.Duration
	selectors Selectors
}

var _ interfaces.RecordSource = (*Scraper)(nil)

func New(timeout time.Duration) *Scraper {
	return &Scraper{
		timeout:   timeout,
		selectors: DefaultSelectors(),
	}
}

func (s *Scraper) Name() string { return "published" }

// ListTabs returns the tab names listed in the sheet menu. A page published
// as a single sheet has no menu and yields no names.
func (s *Scraper) ListTabs(ctx context.Context, resource string) ([]string, error) {
	root, err := s.fetch(ctx, resource)
	if err != nil {
		return nil, err
	}
	var tabs []string
	root.Find(s.selectors.TabMenuItem).Each(func(_ int, li *goquery.Selection) {
		tabs = append(tabs, strings.TrimSpace(li.Text()))
	})
	return tabs, nil
}

// FetchRows reads the table of tab from the page at resource. On a page
// without a sheet menu the first table is used whatever tab is asked for.
func (s *Scraper) FetchRows(ctx context.Context, resource, tab string) ([]types.DealRecord, error) {
	root, err := s.fetch(ctx, resource)
	if err != nil {
		return nil, err
	}

	table, err := s.selectTable(root, tab)
	if err != nil {
		return nil, err
	}
	return grid.ToRecords(s.tableRows(table))
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.requestTimeout(ctx))

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("User-Agent", userAgent)
	})

	var root *goquery.Selection
	c.OnHTML("html", func(e *colly.HTMLElement) {
		root = e.DOM
	})

	var status int
	c.OnError(func(r *colly.Response, _ error) {
		status = r.StatusCode
	})

	if err := c.Visit(pageURL); err != nil {
		switch status {
		case http.StatusNotFound, http.StatusGone:
			return nil, fmt.Errorf("%w: %s: %v", types.ErrResourceNotFound, pageURL, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s is not published: %v", types.ErrResourceNotFound, pageURL, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if root == nil {
		return nil, errors.New("published page is not an HTML document")
	}
	return root, nil
}

func (s *Scraper) requestTimeout(ctx context.Context) time.Duration {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

// selectTable follows the sheet menu entry named tab (sheet-button-<gid>) to
// the container div whose id is the gid.
func (s *Scraper) selectTable(root *goquery.Selection, tab string) (*goquery.Selection, error) {
	menu := root.Find(s.selectors.TabMenuItem)
	if menu.Length() == 0 {
		table := root.Find(s.selectors.Table).First()
		if table.Length() == 0 {
			return nil, errors.New("published page contains no table")
		}
		return table, nil
	}

	item := menu.FilterFunction(func(_ int, li *goquery.Selection) bool {
		return strings.TrimSpace(li.Text()) == tab
	}).First()
	if item.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrTabNotFound, tab)
	}

	gid := strings.TrimPrefix(item.AttrOr("id", ""), "sheet-button-")
	table := root.Find(fmt.Sprintf(`div[id="%s"]`, gid)).Find(s.selectors.Table).First()
	if gid == "" || table.Length() == 0 {
		return nil, fmt.Errorf("%w: %q has no table on the published page", types.ErrTabNotFound, tab)
	}
	return table, nil
}

// tableRows returns the text of every data cell. Rows without data cells
// (column letters) and rows whose cells are all blank (freeze bars, spacer
// rows) are skipped.
func (s *Scraper) tableRows(table *goquery.Selection) [][]string {
	rows := table.Find(s.selectors.Row)
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	var out [][]string
	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find(s.selectors.Cell)
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		blank := true
		cells.Each(func(_ int, td *goquery.Selection) {
			v := strings.TrimSpace(td.Text())
			if v != "" {
				blank = false
			}
			row = append(row, v)
		})
		if !blank {
			out = append(out, row)
		}
	})
	return out
}
