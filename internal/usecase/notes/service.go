package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"study-notes/internal/domain/entity"
	"study-notes/internal/observability/logging"
	"study-notes/internal/observability/metrics"
	"study-notes/internal/observability/tracing"
	"study-notes/internal/usecase/compose"
	"study-notes/internal/usecase/extract"
	"study-notes/internal/usecase/format"
	"study-notes/internal/utils/text"
)

// Config tunes the pipeline. Zero values fall back to the defaults.
type Config struct {
	MaxInputWords   int
	TopKeyPoints    int
	NumTopics       int
	NumKeywords     int
	NumMainPoints   int
	MaxSegmentWords int
	Budget          compose.BudgetStrategy
	// Diagnostics attaches a stack trace to failures.
	Diagnostics bool
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return Config{
		MaxInputWords:   entity.DefaultMaxInputWords,
		TopKeyPoints:    extract.DefaultTopKeyPoints,
		NumTopics:       extract.DefaultNumTopics,
		NumKeywords:     extract.DefaultTopKeyPoints,
		NumMainPoints:   extract.DefaultNumMainPoints,
		MaxSegmentWords: compose.DefaultSegmentWords,
		Budget:          compose.AdaptiveBudget{},
	}
}

// Service runs the notes pipeline. It is safe for concurrent use.
type Service struct {
	deps     Deps
	cfg      Config
	concepts *extract.ConceptExtractor
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithConceptExtractor replaces the default concept rule set.
func WithConceptExtractor(x *extract.ConceptExtractor) Option {
	return func(s *Service) { s.concepts = x }
}

// NewService creates a Service over deps.
func NewService(deps Deps, cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.TopKeyPoints <= 0 {
		cfg.TopKeyPoints = def.TopKeyPoints
	}
	if cfg.NumTopics <= 0 {
		cfg.NumTopics = def.NumTopics
	}
	if cfg.NumKeywords <= 0 {
		cfg.NumKeywords = def.NumKeywords
	}
	if cfg.NumMainPoints <= 0 {
		cfg.NumMainPoints = def.NumMainPoints
	}
	if cfg.MaxSegmentWords <= 0 {
		cfg.MaxSegmentWords = def.MaxSegmentWords
	}
	if cfg.Budget == nil {
		cfg.Budget = def.Budget
	}

	s := &Service{
		deps:     deps,
		cfg:      cfg,
		concepts: extract.NewConceptExtractor(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process turns text into the result variant for mode.
//
// It never panics and never returns nil: every failure, including a panic in a
// collaborator, is reported as a *Failure.
func (s *Service) Process(ctx context.Context, input, mode string) (result Result) {
	start := time.Now()
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRequestID(ctx, logging.NewRequestID())
	}
	logger := logging.WithRequestID(ctx, s.logger)

	ctx, span := tracing.StartSpan(ctx, "notes.process", attribute.String("mode", mode))
	modeLabel := "unknown"

	defer func() {
		if r := recover(); r != nil {
			result = s.failure(mode, entity.NewInternalError("process", newPanicError("process", r)))
		}
		failure, failed := result.(*Failure)
		if failed {
			metrics.RecordProcessError(string(failure.ErrorKind))
			level := slog.LevelError
			if failure.ErrorKind == entity.KindInput {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "notes processing failed",
				slog.String("mode", mode),
				slog.String("error_kind", string(failure.ErrorKind)),
				slog.String("error", failure.Error),
				slog.Duration("duration", time.Since(start)))
			span.SetAttributes(attribute.String("error_kind", string(failure.ErrorKind)))
			tracing.EndSpan(span, errors.New(failure.Error))
		} else {
			logger.InfoContext(ctx, "notes processed",
				slog.String("mode", modeLabel),
				slog.Duration("duration", time.Since(start)))
			tracing.EndSpan(span, nil)
		}
		metrics.RecordProcess(modeLabel, !failed, time.Since(start))
	}()

	opts, err := entity.ParseMode(mode)
	if err != nil {
		return s.failure(mode, entity.NewInputError("parse mode", err))
	}
	modeLabel = string(opts.Mode)

	res, err := s.run(ctx, logger, input, opts)
	if err != nil {
		return s.failure(mode, err)
	}
	return res
}

// extraction collects the outputs of the concurrent stages.
type extraction struct {
	summary    compose.Composition
	keyPoints  []string
	concepts   []entity.Concept
	formulas   []entity.Formula
	questions  []entity.Question
	topics     []entity.Topic
	keywords   []string
	mainPoints []string
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, input string, opts entity.SummaryOptions) (Result, error) {
	if err := entity.ValidateText(input, s.cfg.MaxInputWords); err != nil {
		return nil, entity.NewInputError("validate text", err)
	}
	wordCount := text.CountWords(input)
	metrics.RecordInputWords(wordCount)

	var doc *entity.Document
	err := s.stage(ctx, "annotate", func(ctx context.Context) error {
		if s.deps.Annotator == nil {
			return errors.New("no annotator configured")
		}
		d, err := s.deps.Annotator.Annotate(ctx, input)
		if err != nil {
			return err
		}
		if d == nil {
			return errors.New("annotator returned no document")
		}
		if err := d.Validate(); err != nil {
			return err
		}
		doc = d
		return nil
	})()
	if err != nil {
		return nil, asKind(entity.KindAnnotation, "annotate", err)
	}
	logger.DebugContext(ctx, "text annotated",
		slog.Int("sentences", len(doc.Sentences)),
		slog.Int("word_count", wordCount))

	model, err := s.summarizer()
	if err != nil {
		return nil, entity.NewModelError("load summarization model", err)
	}
	var classifier SentimentClassifier
	if opts.Mode != entity.ModeBullets {
		if classifier, err = s.classifier(); err != nil {
			return nil, entity.NewModelError("load sentiment classifier", err)
		}
	}

	var out extraction
	g, gctx := errgroup.WithContext(ctx)

	g.Go(s.stage(gctx, "compose", func(ctx context.Context) error {
		composer := compose.NewComposer(model, s.deps.Annotator,
			compose.WithBudget(s.cfg.Budget),
			compose.WithMaxSegmentWords(s.cfg.MaxSegmentWords),
			compose.WithLogger(logger))
		comp, err := composer.Compose(ctx, doc, opts)
		if err != nil {
			return entity.NewInternalError("compose", err)
		}
		out.summary = comp
		return nil
	}))
	g.Go(s.stage(gctx, "key_points", func(context.Context) error {
		out.keyPoints = extract.KeyPoints(doc, s.cfg.TopKeyPoints)
		metrics.RecordExtracted("key_points", len(out.keyPoints))
		return nil
	}))
	if opts.Mode != entity.ModeBrief {
		g.Go(s.stage(gctx, "concepts", func(context.Context) error {
			out.concepts = s.concepts.Extract(doc)
			metrics.RecordExtracted("concepts", len(out.concepts))
			return nil
		}))
	}
	if opts.Mode != entity.ModeBullets {
		g.Go(s.stage(gctx, "topics", func(ctx context.Context) error {
			topics, err := extract.Topics(ctx, doc, classifier, s.cfg.NumTopics)
			if err != nil {
				return entity.NewModelError("classify topics", err)
			}
			out.topics = topics
			metrics.RecordExtracted("topics", len(topics))
			return nil
		}))
	}
	if opts.Mode == entity.ModeDetailed {
		g.Go(s.stage(gctx, "formulas", func(context.Context) error {
			out.formulas = extract.Formulas(doc)
			metrics.RecordExtracted("formulas", len(out.formulas))
			return nil
		}))
		g.Go(s.stage(gctx, "questions", func(context.Context) error {
			out.questions = extract.Questions(doc)
			metrics.RecordExtracted("questions", len(out.questions))
			return nil
		}))
		g.Go(s.stage(gctx, "keywords", func(context.Context) error {
			out.keywords = extract.Keywords(doc, s.cfg.NumKeywords)
			out.mainPoints = extract.MainPoints(doc, s.cfg.NumMainPoints)
			metrics.RecordExtracted("keywords", len(out.keywords))
			metrics.RecordExtracted("main_points", len(out.mainPoints))
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.summary.Fallbacks > 0 {
		logger.WarnContext(ctx, "summary composed with excerpts",
			slog.Int("segments", out.summary.Segments),
			slog.Int("fallbacks", out.summary.Fallbacks))
	}
	return s.assemble(opts, wordCount, &out), nil
}

func (s *Service) assemble(opts entity.SummaryOptions, wordCount int, out *extraction) Result {
	header := Header{Success: true, Mode: string(opts.Mode)}
	switch opts.Mode {
	case entity.ModeDetailed:
		return &DetailedResult{
			Header:            header,
			Summary:           out.summary.Summary,
			KeyPoints:         out.keyPoints,
			KeyConcepts:       out.concepts,
			Formulas:          out.formulas,
			PracticeQuestions: out.questions,
			Topics:            out.topics,
			Keywords:          out.keywords,
			MainPoints:        out.mainPoints,
			WordCount:         wordCount,
		}
	case entity.ModeBullets:
		return &BulletResult{
			Header:      header,
			Summary:     out.summary.Summary,
			Notes:       format.Bullets(outline(out.keyPoints, out.concepts), ""),
			KeyPoints:   out.keyPoints,
			KeyConcepts: out.concepts,
			WordCount:   wordCount,
		}
	default:
		return &BriefResult{
			Header:    header,
			Summary:   out.summary.Summary,
			KeyPoints: out.keyPoints,
			Topics:    out.topics,
			WordCount: wordCount,
		}
	}
}

// outline lists key points and then concepts under section headers.
func outline(keyPoints []string, concepts []entity.Concept) []string {
	var points []string
	if len(keyPoints) > 0 {
		points = append(points, "Key Points:")
		points = append(points, keyPoints...)
	}
	if len(concepts) > 0 {
		points = append(points, "Key Concepts:")
		for _, c := range concepts {
			points = append(points, c.Concept+": "+c.Definition)
		}
	}
	return points
}

func (s *Service) summarizer() (SummarizationModel, error) {
	if s.deps.Summarizer == nil {
		return nil, errors.New("no summarization model configured")
	}
	m, err := s.deps.Summarizer.Get()
	if err == nil && m == nil {
		err = errors.New("summarization model is nil")
	}
	return m, err
}

func (s *Service) classifier() (SentimentClassifier, error) {
	if s.deps.Sentiment == nil {
		return nil, nil
	}
	return s.deps.Sentiment.Get()
}

// stage wraps fn with a span, a duration metric and panic recovery.
func (s *Service) stage(ctx context.Context, name string, fn func(ctx context.Context) error) func() error {
	return func() (err error) {
		ctx, span := tracing.StartSpan(ctx, "notes."+name)
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				err = entity.NewInternalError(name, newPanicError(name, r))
			}
			metrics.RecordStage(name, time.Since(start))
			tracing.EndSpan(span, err)
		}()
		return fn(ctx)
	}
}

func (s *Service) failure(mode string, err error) *Failure {
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = "unknown error"
	}
	f := &Failure{
		Header:    Header{Success: false, Mode: mode},
		Error:     msg,
		ErrorKind: entity.KindOf(err),
	}
	if s.cfg.Diagnostics {
		var pe *panicError
		stack := ""
		if errors.As(err, &pe) {
			stack = string(pe.stack)
		} else {
			stack = string(debug.Stack())
		}
		f.StackTrace = &stack
	}
	return f
}

// asKind wraps err in a NotesError of kind unless it already carries one.
func asKind(kind entity.ErrorKind, op string, err error) error {
	var notesErr *entity.NotesError
	if errors.As(err, &notesErr) {
		return err
	}
	return &entity.NotesError{Kind: kind, Op: op, Err: err}
}

// panicError is a recovered panic with the stack at the point of recovery.
type panicError struct {
	stage string
	value any
	stack []byte
}

func newPanicError(stage string, value any) *panicError {
	return &panicError{stage: stage, value: value, stack: debug.Stack()}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.stage, e.value)
}
