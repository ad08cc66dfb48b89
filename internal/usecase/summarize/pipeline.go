package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"medsum/internal/infra/collector"
	"medsum/internal/observability/logging"
	"medsum/internal/observability/metrics"
	"medsum/internal/observability/tracing"
	"medsum/internal/utils/text"
)

// Summarization modes reported in Result.Mode.
const (
	ModeNone    = "none"
	ModeSingle  = "single"
	ModeChunked = "chunked"
)

// Config holds the splitting parameters of a Pipeline. Lengths are in runes.
type Config struct {
	// ChunkSize is the target chunk length.
	ChunkSize int

	// Overlap is the number of runes shared by consecutive chunks.
	Overlap int

	// TokenLimit is the normalized length above which the text is split.
	TokenLimit int
}

// DefaultConfig returns the default splitting parameters.
func DefaultConfig() Config {
	return Config{
		ChunkSize:  text.DefaultChunkSize,
		Overlap:    text.DefaultOverlap,
		TokenLimit: 4000,
	}
}

// Result describes one pipeline run.
type Result struct {
	// Summary is the final summary. It is empty when Empty is true.
	Summary string

	// Empty reports the soft "nothing to summarize" condition.
	Empty bool

	// Mode is ModeSingle, ModeChunked or ModeNone.
	Mode string

	// Chunks is the number of chunks summarized, 1 in single mode.
	Chunks int

	// InputLength and NormalizedLength are rune counts before and after preparation.
	InputLength      int
	NormalizedLength int

	Duration time.Duration
}

// Pipeline reads, normalizes, optionally splits and summarizes documents.
type Pipeline struct {
	orchestrator *Orchestrator
	cfg          Config
}

// NewPipeline creates a Pipeline.
func NewPipeline(orchestrator *Orchestrator, cfg Config) *Pipeline {
	return &Pipeline{orchestrator: orchestrator, cfg: cfg}
}

// WithModel returns a copy of p whose completions request model.
// An empty model returns p unchanged.
func (p *Pipeline) WithModel(model string) *Pipeline {
	if model == "" {
		return p
	}
	clone := *p
	clone.orchestrator = p.orchestrator.WithModel(model)
	return &clone
}

// Process summarizes every document of src and, when outputPath is set,
// writes the summary there. Nothing to summarize is not an error: the result
// has Empty set and no file is written.
func (p *Pipeline) Process(ctx context.Context, src collector.DocumentSource, outputPath string) (Result, error) {
	start := time.Now()
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.process")
	defer span.End()
	span.SetAttributes(attribute.String("source", src.String()))

	result, err := p.process(ctx, src, outputPath)
	result.Duration = time.Since(start)
	p.finish(ctx, span, result, err)
	return result, err
}

// ProcessText summarizes already-loaded raw text.
func (p *Pipeline) ProcessText(ctx context.Context, raw string) (Result, error) {
	start := time.Now()
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.process_text")
	defer span.End()

	result, err := p.summarizeText(ctx, raw)
	result.Duration = time.Since(start)
	p.finish(ctx, span, result, err)
	return result, err
}

func (p *Pipeline) process(ctx context.Context, src collector.DocumentSource, outputPath string) (Result, error) {
	content, err := collector.ReadAndConcatenate(ctx, src)
	if err != nil {
		return Result{Mode: ModeNone}, fmt.Errorf("read documents: %w", err)
	}

	result, err := p.summarizeText(ctx, content)
	if err != nil || result.Empty {
		return result, err
	}

	if outputPath != "" {
		if err := collector.WriteOutput(result.Summary, outputPath); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Pipeline) summarizeText(ctx context.Context, raw string) (Result, error) {
	result := Result{Mode: ModeNone, InputLength: text.CountRunes(raw)}
	if result.InputLength == 0 {
		logging.FromContext(ctx).WarnContext(ctx, "No content to summarize")
		result.Empty = true
		return result, nil
	}

	prepared := text.Prepare(raw, 0)
	result.NormalizedLength = text.CountRunes(prepared)
	if result.NormalizedLength == 0 {
		logging.FromContext(ctx).WarnContext(ctx, "No text to summarize")
		result.Empty = true
		return result, nil
	}
	metrics.RecordNormalizedLength(result.NormalizedLength)

	var (
		summary string
		err     error
	)
	if result.NormalizedLength > p.cfg.TokenLimit {
		chunks := text.Split(prepared, p.cfg.ChunkSize, p.cfg.Overlap)
		result.Mode = ModeChunked
		result.Chunks = len(chunks)
		metrics.RecordChunks(len(chunks))

		logging.FromContext(ctx).InfoContext(ctx, "text exceeds token limit, splitting into chunks",
			slog.Int("length", result.NormalizedLength),
			slog.Int("token_limit", p.cfg.TokenLimit),
			slog.Int("chunks", len(chunks)),
			slog.Int("estimated_tokens", text.EstimateTokens(prepared)))

		summary, err = p.orchestrator.Summarize(ctx, chunks)
	} else {
		result.Mode = ModeSingle
		result.Chunks = 1
		summary, err = p.orchestrator.SummarizeOne(ctx, prepared)
	}
	if err != nil {
		return result, err
	}

	result.Summary = summary
	return result, nil
}

// finish records metrics, span attributes and the completion log of a run.
func (p *Pipeline) finish(ctx context.Context, span trace.Span, result Result, err error) {
	outcome := metrics.OutcomeOf(result.Empty, err)
	metrics.RecordPipelineRun(outcome, result.Mode, result.Duration)

	span.SetAttributes(
		attribute.String("outcome", outcome),
		attribute.String("mode", result.Mode),
		attribute.Int("chunks", result.Chunks),
		attribute.Int("normalized.length", result.NormalizedLength),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		logging.FromContext(ctx).ErrorContext(ctx, "summarization failed",
			slog.String("mode", result.Mode),
			slog.Duration("duration", result.Duration),
			slog.Any("error", err))
		return
	}
	if result.Empty {
		return
	}

	logging.FromContext(ctx).InfoContext(ctx, "summarization completed",
		slog.String("mode", result.Mode),
		slog.Int("chunks", result.Chunks),
		slog.Int("input_length", result.InputLength),
		slog.Int("normalized_length", result.NormalizedLength),
		slog.Int("summary_length", text.CountRunes(result.Summary)),
		slog.Duration("duration", result.Duration))
}
