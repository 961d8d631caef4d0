// Package generator runs the deals page pipeline: fetch, filter, render,
// assemble, write, publish assets. It never exits the process; the outcome
// is returned as a Result.
package generator

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"poolpower-site/internal/buildlog"
	"poolpower-site/internal/deals"
	"poolpower-site/internal/interfaces"
	"poolpower-site/internal/logger"
	"poolpower-site/internal/publish"
	"poolpower-site/internal/store"
	"poolpower-site/internal/types"
)

type Status int

const (
	StatusGenerated Status = iota
	StatusFatal
	StatusNoActiveDeals
	StatusTemplateMissing
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusNoActiveDeals:
		return "no_active_deals"
	case StatusTemplateMissing:
		return "template_missing"
	default:
		return "fatal"
	}
}

// ExitCode maps the status to the process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusGenerated:
		return 0
	case StatusNoActiveDeals:
		return 2
	case StatusTemplateMissing:
		return 3
	default:
		return 1
	}
}

// StatusFor classifies a pipeline error.
func StatusFor(err error) Status {
	switch {
	case err == nil:
		return StatusGenerated
	case errors.Is(err, types.ErrNoActiveDeals):
		return StatusNoActiveDeals
	case errors.Is(err, types.ErrTemplateMissing):
		return StatusTemplateMissing
	default:
		return StatusFatal
	}
}

// Settings is the immutable per-run configuration.
type Settings struct {
	ContactID    string
	Resource     string
	Tab          string
	TemplatePath string
	OutputDir    string
	OutputPath   string
	Assets       []store.Asset
	EscapeHTML   bool
	FetchTimeout time.Duration
	// BuildLogDir disables the build log when empty.
	BuildLogDir string
}

func SettingsFromConfig(cfg *store.Config) Settings {
	return Settings{
		ContactID:    cfg.ContactID,
		Resource:     cfg.Resource(),
		Tab:          cfg.Source.TabName,
		TemplatePath: cfg.Site.TemplatePath,
		OutputDir:    cfg.Site.OutputDir,
		OutputPath:   cfg.OutputPath(),
		Assets:       append([]store.Asset(nil), cfg.Site.Assets...),
		EscapeHTML:   cfg.Render.EscapeHTML,
		FetchTimeout: cfg.FetchTimeout(),
		BuildLogDir:  cfg.BuildLog.Dir,
	}
}

type Result struct {
	Status      Status
	OutputPath  string
	TotalRows   int
	ActiveDeals int
	Warnings    []publish.Warning
	Err         error
}

type Generator struct {
	source   interfaces.RecordSource
	settings Settings
}

func New(source interfaces.RecordSource, settings Settings) *Generator {
	return &Generator{source: source, settings: settings}
}

// Run executes one generation. The page is written only after it is fully
// assembled; nothing is written when there are no active deals or the
// template is missing.
func (g *Generator) Run(ctx context.Context) Result {
	op := logger.StartOperation(ctx, "generator.Run",
		"source", g.source.Name(),
		"resource", g.settings.Resource,
		"tab", g.settings.Tab,
	)
	ctx = op.GetContext()

	res := g.run(ctx)
	res.Status = StatusFor(res.Err)

	if res.Status == StatusFatal || res.Status == StatusTemplateMissing {
		op.EndWithError(res.Err, "status", res.Status.String())
	} else {
		op.End("status", res.Status.String(), "active_deals", res.ActiveDeals)
	}

	g.record(ctx, res)
	return res
}

func (g *Generator) run(ctx context.Context) Result {
	var res Result

	rows, err := g.fetch(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.TotalRows = len(rows)

	active := deals.FilterActive(rows)
	res.ActiveDeals = len(active)
	logger.Info(ctx, "Filtered active deals", "total_rows", res.TotalRows, "active_deals", res.ActiveDeals)
	if len(active) == 0 {
		logger.Warn(ctx, "No active deals found, skipping page generation")
		res.Err = types.ErrNoActiveDeals
		return res
	}

	fragments := deals.NewRenderer(g.settings.ContactID, g.settings.EscapeHTML).RenderAll(active)

	tmpl, err := publish.LoadTemplate(g.settings.TemplatePath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Template file missing", err, "path", g.settings.TemplatePath)
		res.Err = err
		return res
	}

	page, err := deals.Assemble(tmpl, fragments, g.settings.ContactID)
	if err != nil {
		res.Err = err
		return res
	}

	if err := publish.WritePage(g.settings.OutputPath, page); err != nil {
		logger.ErrorWithErr(ctx, "Failed to write page", err, "path", g.settings.OutputPath)
		res.Err = err
		return res
	}
	res.OutputPath = g.settings.OutputPath
	logger.Info(ctx, "Generated page", "path", res.OutputPath, "deals", len(fragments))

	res.Warnings = publish.NewPublisher(g.settings.OutputDir).CopyAssets(ctx, g.settings.Assets)
	return res
}

func (g *Generator) fetch(ctx context.Context) ([]types.DealRecord, error) {
	if g.settings.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.settings.FetchTimeout)
		defer cancel()
	}
	return g.source.FetchRows(ctx, g.settings.Resource, g.settings.Tab)
}

func (g *Generator) record(ctx context.Context, res Result) {
	if g.settings.BuildLogDir == "" {
		return
	}
	e := buildlog.Entry{
		Source:      g.source.Name(),
		Resource:    g.settings.Resource,
		Tab:         g.settings.Tab,
		Status:      res.Status.String(),
		ExitCode:    res.Status.ExitCode(),
		TotalRows:   res.TotalRows,
		ActiveDeals: res.ActiveDeals,
		OutputPath:  res.OutputPath,
		Warnings:    lo.Map(res.Warnings, func(w publish.Warning, _ int) string { return w.String() }),
	}
	if res.Err != nil && res.Status != StatusNoActiveDeals {
		e.Error = res.Err.Error()
	}
	if err := buildlog.Append(g.settings.BuildLogDir, e); err != nil {
		logger.Warn(ctx, "Failed to append build log", "dir", g.settings.BuildLogDir, "error", err)
	}
}
