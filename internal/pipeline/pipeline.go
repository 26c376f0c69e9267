// Package pipeline drives a full conversion run: fetch, extract, select,
// title, convert, cleanup. Control flow is strictly forward; the first
// stage failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"arxivepub/internal/config"
	"arxivepub/internal/convert"
	"arxivepub/internal/deps"
	"arxivepub/internal/extract"
	"arxivepub/internal/fetch"
	"arxivepub/internal/fileutil"
	"arxivepub/internal/history"
	"arxivepub/internal/logging"
	"arxivepub/internal/services"
	"arxivepub/internal/texsource"
)

// DepsChecker evaluates external binary availability before a run.
type DepsChecker func(cfg *config.Config) []deps.Status

// Pipeline orchestrates one URL-to-EPUB conversion at a time.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *history.Store
	fetcher   *fetch.Fetcher
	executor  services.Executor
	prompter  io.Reader
	promptOut io.Writer
	checkDeps DepsChecker
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger to the pipeline and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStore attaches a history store. Recording is best-effort; a nil
// store disables it.
func WithStore(store *history.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithFetcher replaces the default fetcher (primarily for tests).
func WithFetcher(fetcher *fetch.Fetcher) Option {
	return func(p *Pipeline) {
		if fetcher != nil {
			p.fetcher = fetcher
		}
	}
}

// WithExecutor injects a command executor shared by tar and the three
// converters (primarily for tests).
func WithExecutor(executor services.Executor) Option {
	return func(p *Pipeline) {
		if executor != nil {
			p.executor = executor
		}
	}
}

// WithPrompter redirects the interactive main-file selection.
func WithPrompter(in io.Reader, out io.Writer) Option {
	return func(p *Pipeline) {
		if in != nil {
			p.prompter = in
		}
		if out != nil {
			p.promptOut = out
		}
	}
}

// WithDepsChecker replaces the binary preflight (primarily for tests).
func WithDepsChecker(checker DepsChecker) Option {
	return func(p *Pipeline) {
		if checker != nil {
			p.checkDeps = checker
		}
	}
}

// New constructs a pipeline for the given configuration.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		logger:    logging.NewNop(),
		executor:  services.NewCommandExecutor(),
		prompter:  os.Stdin,
		promptOut: os.Stderr,
		checkDeps: func(cfg *config.Config) []deps.Status {
			return deps.CheckBinaries(deps.Requirements(cfg))
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = fetch.New(cfg.Paths.DownloadDir, fetch.WithLogger(p.logger))
	}
	return p
}

// Result describes a completed conversion run.
type Result struct {
	RunID      string
	PaperID    string
	Title      string
	MainFile   string
	OutputPath string
}

// Run converts the paper behind an arXiv abstract URL into an EPUB and
// returns where it landed.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	paperID, err := fetch.PaperID(url)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithPaperID(ctx, paperID)
	logger := logging.WithContext(ctx, p.logger)

	if missing := deps.MissingRequired(p.checkDeps(p.cfg)); len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "preflight", "check binaries",
			fmt.Sprintf("missing required tools: %s", strings.Join(missing, ", ")), nil)
	}

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "preflight", "ensure directories", "", err)
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.DownloadDir, paperID+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "preflight", "acquire lock", paperID, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "preflight", "acquire lock",
			fmt.Sprintf("paper %s is already being converted", paperID), nil)
	}
	defer func() { _ = lock.Unlock() }()

	logger.Info("starting conversion run", logging.String("url", url))

	record := p.recordStart(ctx, runID, paperID, url)
	result, err := p.convert(ctx, logger, url, paperID, record)
	p.recordFinish(ctx, record, result, err)
	if err != nil {
		return nil, err
	}

	logger.Info("conversion run complete", logging.String("output", result.OutputPath))
	result.RunID = runID
	result.PaperID = paperID
	return result, nil
}

func (p *Pipeline) convert(ctx context.Context, logger *slog.Logger, url, paperID string, record *history.Item) (*Result, error) {
	p.setStatus(ctx, record, history.StatusFetching)
	archive, _, err := p.runStage(ctx, logger, "fetch", func(ctx context.Context) (string, error) {
		path, _, err := p.fetcher.Download(ctx, url)
		return path, err
	})
	if err != nil {
		return nil, err
	}

	p.setStatus(ctx, record, history.StatusExtracting)
	extractor := extract.New(p.cfg.Tools.Tar, p.cfg.Paths.ExtractDir,
		extract.WithExecutor(p.executor), extract.WithLogger(logger))
	sourceDir, _, err := p.runStage(ctx, logger, "extract", func(ctx context.Context) (string, error) {
		return extractor.Extract(ctx, archive)
	})
	if err != nil {
		return nil, err
	}

	mainFile, _, err := p.runStage(ctx, logger, "select", func(ctx context.Context) (string, error) {
		candidates, err := texsource.ListCandidates(sourceDir)
		if err != nil {
			return "", err
		}
		return texsource.SelectMain(candidates, p.cfg.Conversion.MainFile, p.prompter, p.promptOut)
	})
	if err != nil {
		return nil, err
	}
	mainPath := texsource.MainFilePath(sourceDir, mainFile)
	if record != nil {
		record.MainFile = mainFile
	}

	title, _, err := p.runStage(ctx, logger, "title", func(ctx context.Context) (string, error) {
		return texsource.ScanTitle(mainPath)
	})
	if err != nil {
		return nil, err
	}
	if record != nil {
		record.Title = title
	}

	outputPath := p.ResolveOutputPath(title)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "output", "create output dir",
			filepath.Dir(outputPath), err)
	}
	if record != nil {
		record.OutputPath = outputPath
	}

	p.setStatus(ctx, record, history.StatusConverting)
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	xmlPath := base + ".xml"
	htmlPath := base + ".html"

	_, _, err = p.runStage(ctx, logger, "latexml", func(ctx context.Context) (string, error) {
		client := convert.NewLaTeXML(p.cfg.Tools.LaTeXML,
			convert.WithLaTeXMLExecutor(p.executor), convert.WithLaTeXMLLogger(logger))
		return "", client.Convert(ctx, mainPath, xmlPath)
	})
	if err != nil {
		return nil, err
	}

	_, _, err = p.runStage(ctx, logger, "latexmlpost", func(ctx context.Context) (string, error) {
		client := convert.NewLaTeXMLPost(p.cfg.Tools.LaTeXMLPost,
			convert.WithLaTeXMLPostExecutor(p.executor), convert.WithLaTeXMLPostLogger(logger))
		return "", client.Convert(ctx, xmlPath, htmlPath)
	})
	if err != nil {
		return nil, err
	}

	_, _, err = p.runStage(ctx, logger, "ebook-convert", func(ctx context.Context) (string, error) {
		client := convert.NewEbookConvert(p.cfg.Tools.EbookConvert, p.cfg.Conversion.Language,
			convert.WithEbookConvertExecutor(p.executor), convert.WithEbookConvertLogger(logger))
		return "", client.Convert(ctx, htmlPath, outputPath)
	})
	if err != nil {
		return nil, err
	}

	if p.cfg.Conversion.CleanIntermediates {
		if err := fileutil.CleanNonEPUB(filepath.Dir(outputPath), logger); err != nil {
			logger.Warn("cleanup failed", logging.Error(err))
		}
	}

	return &Result{Title: title, MainFile: mainFile, OutputPath: outputPath}, nil
}

// ResolveOutputPath substitutes the sanitized title into the output
// template's $1 placeholder. Templates without the placeholder are used
// as-is.
func (p *Pipeline) ResolveOutputPath(title string) string {
	template := p.cfg.Conversion.OutputTemplate
	if template == "" {
		template = filepath.Join(p.cfg.Paths.OutputDir, "$1.epub")
	}
	return strings.ReplaceAll(template, "$1", fileutil.SanitizeFileName(title))
}

// runStage wraps one pipeline step with stage-scoped logging and the
// configured tool timeout.
func (p *Pipeline) runStage(ctx context.Context, logger *slog.Logger, stage string, fn func(context.Context) (string, error)) (string, time.Duration, error) {
	ctx = services.WithStage(ctx, stage)
	stageLogger := logger.With(logging.String(logging.FieldStage, stage))

	if p.cfg.Conversion.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.cfg.Conversion.ToolTimeout)*time.Second)
		defer cancel()
	}

	started := time.Now()
	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	value, err := fn(ctx)
	elapsed := time.Since(started)
	if err != nil {
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(err),
			logging.Duration("elapsed", elapsed))
		return "", elapsed, err
	}
	stageLogger.Info("stage complete",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", elapsed))
	return value, elapsed, nil
}

func (p *Pipeline) recordStart(ctx context.Context, runID, paperID, url string) *history.Item {
	if p.store == nil {
		return nil
	}
	record, err := p.store.Add(ctx, runID, paperID, url)
	if err != nil {
		p.logger.Warn("history recording unavailable", logging.Error(err))
		return nil
	}
	return record
}

func (p *Pipeline) setStatus(ctx context.Context, record *history.Item, status history.Status) {
	if p.store == nil || record == nil {
		return
	}
	record.Status = status
	if err := p.store.Update(ctx, record); err != nil {
		p.logger.Warn("history update failed", logging.Error(err))
	}
}

func (p *Pipeline) recordFinish(ctx context.Context, record *history.Item, result *Result, runErr error) {
	if p.store == nil || record == nil {
		return
	}
	if runErr != nil {
		record.Status = history.StatusFailed
		record.ErrorMessage = runErr.Error()
	} else {
		record.Status = history.StatusCompleted
		record.ErrorMessage = ""
		if result != nil {
			record.Title = result.Title
			record.MainFile = result.MainFile
			record.OutputPath = result.OutputPath
		}
	}
	if err := p.store.Update(ctx, record); err != nil {
		p.logger.Warn("history update failed", logging.Error(err))
	}
}
