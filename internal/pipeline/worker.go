package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rehierl/html-outliner/internal/config"
	"github.com/rehierl/html-outliner/internal/doctree"
	"github.com/rehierl/html-outliner/internal/dom"
	"github.com/rehierl/html-outliner/internal/lint"
	"github.com/rehierl/html-outliner/internal/outline"
	"github.com/rehierl/html-outliner/internal/parser"
	"github.com/rehierl/html-outliner/internal/stats"
	"github.com/rehierl/html-outliner/internal/toc"
)

// Request describes one document to outline.
type Request struct {
	Filename string
	Format   string // Overrides the extension when set.
	Title    string
	Root     string // XPath of the root element; the configured default when empty.
	Options  map[string]string
	Data     []byte
}

// Result is a finished outline.
type Result struct {
	Tree     *doctree.DocTree `json:"outline"`
	TOC      []toc.Entry      `json:"toc"`
	Findings []lint.Finding   `json:"findings"`
	Root     string           `json:"root"`
	BuildUs  int64            `json:"build_us"`
}

// Stage errors. Outline failures keep their *outline.Error so callers can
// tell invalid options, roots and HTML apart.
var (
	ErrUnsupported = errors.New("unsupported document")
	ErrParse       = errors.New("parse failed")
	ErrRoot        = errors.New("root selection failed")
)

// Worker runs the outline pipeline. It holds no per-document state and may
// be shared between goroutines.
type Worker struct {
	cfg   config.Config
	stats *stats.BuildStats
	log   *slog.Logger
}

func NewWorker(cfg config.Config, st *stats.BuildStats, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Worker{cfg: cfg, stats: st, log: log}
}

// Process runs the full pipeline for a queued job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// An invariant panic is a bug in the engine. Fail the job loudly instead
	// of taking the other workers down with it.
	defer func() {
		if r := recover(); r != nil {
			log.Error("outline engine panic", "panic", r)
			job.AddError(fmt.Sprint(r))
			job.SetStatus(StatusFailed, "outlining")
		}
	}()

	req := Request{
		Filename: job.Filename,
		Format:   job.Format,
		Title:    job.Title,
		Root:     job.Root,
		Options:  job.Options,
		Data:     job.FileData(),
	}
	res, err := w.run(ctx, req, log, job.SetStatus)
	job.releaseFileData()
	if err != nil {
		log.Error("outline failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, failedPhase(err))
		return
	}

	job.SetResult(res)
	job.SetStatus(StatusCompleted, "done")
	log.Info("outline complete", "sections", res.Tree.Count(), "findings", len(res.Findings))
}

// Outline runs the pipeline synchronously.
func (w *Worker) Outline(ctx context.Context, req Request) (*Result, error) {
	return w.run(ctx, req, w.log.With("filename", req.Filename), func(JobStatus, string) {})
}

func (w *Worker) run(ctx context.Context, req Request, log *slog.Logger, phase func(JobStatus, string)) (*Result, error) {
	// Phase 1: Parse
	phase(StatusParsing, "parsing")
	p, err := w.parserFor(req)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(req.Data), req.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if req.Title != "" {
		doc.Title = req.Title
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: Outline
	phase(StatusOutlining, "outlining")
	opts, err := w.cfg.OutlineOptions(req.Options)
	if err != nil {
		return nil, err
	}
	rootExpr := req.Root
	if rootExpr == "" {
		rootExpr = w.cfg.DefaultRoot
	}
	root, err := dom.Select(doc.Root, rootExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoot, err)
	}

	builder, err := outline.NewBuilder(opts, log)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	o, err := builder.Build(dom.Wrap(root))
	elapsed := time.Since(start)
	if err != nil {
		w.record(elapsed, true)
		return nil, err
	}
	w.record(elapsed, false)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := doctree.FromOutline(o, doc.Title)
	log.Debug("outline built", "root", rootExpr, "sections", tree.Count(), "elapsed_us", elapsed.Microseconds())

	// Phase 3: Lint
	phase(StatusLinting, "linting")
	lintCfg := lint.DefaultConfig()
	lintCfg.MaxTitleLen = w.cfg.MaxTitleLen
	findings := lint.Check(tree, lintCfg)
	if findings == nil {
		findings = []lint.Finding{}
	}

	return &Result{
		Tree:     tree,
		TOC:      toc.Flatten(tree, toc.DefaultConfig()),
		Findings: findings,
		Root:     rootExpr,
		BuildUs:  elapsed.Microseconds(),
	}, nil
}

func (w *Worker) parserFor(req Request) (parser.Parser, error) {
	var (
		p   parser.Parser
		err error
	)
	if req.Format != "" {
		p, err = parser.ForFormat(req.Format)
	} else {
		p, err = parser.ForFile(req.Filename)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return p, nil
}

func (w *Worker) record(d time.Duration, failed bool) {
	if w.stats == nil {
		return
	}
	if failed {
		w.stats.RecordFailure(d)
		return
	}
	w.stats.Record(d)
}

func failedPhase(err error) string {
	var oe *outline.Error
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrParse):
		return "parsing"
	case errors.Is(err, ErrRoot), errors.As(err, &oe):
		return "outlining"
	}
	return "canceled"
}
