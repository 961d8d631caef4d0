package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolpower-site/internal/publish"
	"poolpower-site/internal/store"
	"poolpower-site/internal/types"
)

const (
	contactID = "254700000000"
	pageTmpl  = `<html><body><header><a href="https://wa.me/[YourPoolPowerNumber]">Chat</a></header>` +
		`<main id="deals">[DEALS_PLACEHOLDER]</main></body></html>`
)

type fakeSource struct {
	rows     []types.DealRecord
	err      error
	deadline bool
	gotTab   string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchRows(ctx context.Context, _, tab string) ([]types.DealRecord, error) {
	_, f.deadline = ctx.Deadline()
	f.gotTab = tab
	return f.rows, f.err
}

func (f *fakeSource) ListTabs(context.Context, string) ([]string, error) {
	return []string{"Deals"}, nil
}

type fixture struct {
	settings Settings
	root     string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	siteDir := filepath.Join(root, "site")
	outDir := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(siteDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "index_template.html"), []byte(pageTmpl), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "script.js"), []byte("// js"), 0o644))

	return fixture{
		root: root,
		settings: Settings{
			ContactID:    contactID,
			Resource:     "POOL POWER OPERATIONS DATA",
			Tab:          "Deals",
			TemplatePath: filepath.Join(siteDir, "index_template.html"),
			OutputDir:    outDir,
			OutputPath:   filepath.Join(outDir, "index.html"),
			Assets: []store.Asset{
				{Name: "style.css", Source: filepath.Join(siteDir, "style.css")},
				{Name: "script.js", Source: filepath.Join(siteDir, "script.js")},
			},
			FetchTimeout: time.Minute,
			BuildLogDir:  filepath.Join(root, "logs"),
		},
	}
}

func readPage(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestRunGeneratesPage(t *testing.T) {
	fx := newFixture(t)
	src := &fakeSource{rows: []types.DealRecord{
		{
			types.FieldDealID:      "D1",
			types.FieldItemName:    "Solar Panel",
			types.FieldDescription: "200W panel",
			types.FieldTargetQty:   "10",
			types.FieldPrice:       "3500",
			types.FieldImageURL:    "http://x/p.jpg",
			types.FieldIsActive:    "Yes",
		},
		{types.FieldDealID: "D2", types.FieldIsActive: "no"},
	}}

	res := New(src, fx.settings).Run(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, StatusGenerated, res.Status)
	assert.Equal(t, 0, res.Status.ExitCode())
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.ActiveDeals)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Deals", src.gotTab)
	assert.True(t, src.deadline, "fetch should run under a timeout")

	doc := readPage(t, res.OutputPath)
	items := doc.Find("#deals .deal-item")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "Solar Panel (D1)", strings.TrimSpace(items.Find("h3").Text()))
	assert.Contains(t, items.Find("p").Text(), "KSh 3500")
	assert.Equal(t, contactID, items.Find("button").AttrOr("data-whatsapp-number", ""))
	assert.Equal(t, "https://wa.me/"+contactID, doc.Find("header a").AttrOr("href", ""))

	for _, name := range []string{"style.css", "script.js"} {
		assert.FileExists(t, filepath.Join(fx.settings.OutputDir, name))
	}
}

func TestRunNoActiveDealsWritesNothing(t *testing.T) {
	fx := newFixture(t)
	src := &fakeSource{rows: []types.DealRecord{
		{types.FieldDealID: "D1", types.FieldItemName: "Solar Panel", types.FieldIsActive: "no"},
	}}

	res := New(src, fx.settings).Run(context.Background())

	assert.Equal(t, StatusNoActiveDeals, res.Status)
	assert.Equal(t, 2, res.Status.ExitCode())
	assert.ErrorIs(t, res.Err, types.ErrNoActiveDeals)
	assert.Empty(t, res.OutputPath)
	assert.NoDirExists(t, fx.settings.OutputDir)
}

func TestRunMissingImageURLRendersEmptySrc(t *testing.T) {
	fx := newFixture(t)
	src := &fakeSource{rows: []types.DealRecord{
		{types.FieldDealID: "D3", types.FieldItemName: "Inverter", types.FieldIsActive: " YES "},
	}}

	res := New(src, fx.settings).Run(context.Background())
	require.NoError(t, res.Err)

	img := readPage(t, res.OutputPath).Find(".deal-item img")
	require.Equal(t, 1, img.Length())
	src2, ok := img.Attr("src")
	assert.True(t, ok, "img must carry a src attribute")
	assert.Equal(t, "", src2)
}

func TestRunTemplateMissing(t *testing.T) {
	fx := newFixture(t)
	fx.settings.TemplatePath = filepath.Join(fx.root, "site", "gone.html")
	src := &fakeSource{rows: []types.DealRecord{{types.FieldIsActive: "yes"}}}

	res := New(src, fx.settings).Run(context.Background())

	assert.Equal(t, StatusTemplateMissing, res.Status)
	assert.Equal(t, 3, res.Status.ExitCode())
	assert.NoFileExists(t, fx.settings.OutputPath)
}

func TestRunFetchErrorsAreFatal(t *testing.T) {
	for _, sentinel := range []error{
		types.ErrCredentials,
		types.ErrResourceNotFound,
		types.ErrTabNotFound,
		errors.New("connection reset"),
	} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			fx := newFixture(t)
			src := &fakeSource{err: fmt.Errorf("fetch: %w", sentinel)}

			res := New(src, fx.settings).Run(context.Background())

			assert.Equal(t, StatusFatal, res.Status)
			assert.Equal(t, 1, res.Status.ExitCode())
			assert.ErrorIs(t, res.Err, sentinel)
			assert.NoFileExists(t, fx.settings.OutputPath)
		})
	}
}

func TestRunMissingAssetIsWarning(t *testing.T) {
	fx := newFixture(t)
	fx.settings.Assets = append(fx.settings.Assets, store.Asset{
		Name:   "logo.png",
		Source: filepath.Join(fx.root, "site", "logo.png"),
	})
	src := &fakeSource{rows: []types.DealRecord{{types.FieldIsActive: "yes"}}}

	res := New(src, fx.settings).Run(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, StatusGenerated, res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "logo.png", res.Warnings[0].Asset)
	assert.ErrorIs(t, res.Warnings[0].Err, publish.ErrAssetMissing)
	assert.FileExists(t, filepath.Join(fx.settings.OutputDir, "style.css"))
}

func TestRunAppendsBuildLog(t *testing.T) {
	fx := newFixture(t)
	src := &fakeSource{rows: []types.DealRecord{{types.FieldIsActive: "yes"}}}

	New(src, fx.settings).Run(context.Background())
	New(&fakeSource{}, fx.settings).Run(context.Background())

	entries, err := os.ReadDir(fx.settings.BuildLogDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := os.ReadFile(filepath.Join(fx.settings.BuildLogDir, entries[0].Name()))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"status":"generated"`)
	assert.Contains(t, lines[1], `"status":"no_active_deals"`)
	assert.Contains(t, lines[1], `"exit_code":2`)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &store.Config{ContactID: contactID}
	cfg.Source.Kind = store.SourceCSV
	cfg.Source.CSVDir = "fixtures"
	cfg.Source.TabName = "Deals"
	cfg.Source.FetchTimeoutSeconds = 5
	cfg.Site.OutputDir = "docs"
	cfg.Site.OutputFile = "index.html"
	cfg.Site.Assets = []store.Asset{{Name: "style.css", Source: "site/style.css"}}
	cfg.Render.EscapeHTML = true

	s := SettingsFromConfig(cfg)
	cfg.Site.Assets[0].Name = "changed.css"

	assert.Equal(t, "fixtures", s.Resource)
	assert.Equal(t, filepath.Join("docs", "index.html"), s.OutputPath)
	assert.Equal(t, 5*time.Second, s.FetchTimeout)
	assert.True(t, s.EscapeHTML)
	assert.Equal(t, "style.css", s.Assets[0].Name)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusGenerated, StatusFor(nil))
	assert.Equal(t, StatusNoActiveDeals, StatusFor(types.ErrNoActiveDeals))
	assert.Equal(t, StatusTemplateMissing, StatusFor(fmt.Errorf("x: %w", types.ErrTemplateMissing)))
	assert.Equal(t, StatusFatal, StatusFor(types.ErrCredentials))
	assert.Equal(t, "template_missing", StatusTemplateMissing.String())
}
