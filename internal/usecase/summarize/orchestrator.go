// Package summarize implements the reduction pipeline: a single completion for
// short text, or one completion per chunk followed by a reduction pass.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"medsum/internal/domain/entity"
	"medsum/internal/observability/logging"
	"medsum/internal/observability/tracing"
	"medsum/internal/utils/text"
)

// ErrNoChunks is returned by Summarize when called with an empty chunk sequence.
var ErrNoChunks = errors.New("no chunks to summarize")

// Generator is the LLM completion capability.
// *summarizer.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req entity.Completion) (string, error)
}

// Orchestrator turns text or chunk sequences into one summary.
// It holds no per-call state and is safe for concurrent use when its Generator is.
type Orchestrator struct {
	gen   Generator
	model string
}

// NewOrchestrator creates an Orchestrator. An empty model leaves the
// provider's configured model in effect.
func NewOrchestrator(gen Generator, model string) *Orchestrator {
	return &Orchestrator{gen: gen, model: model}
}

// WithModel returns a copy of o that requests the given model.
func (o *Orchestrator) WithModel(model string) *Orchestrator {
	clone := *o
	clone.model = model
	return &clone
}

// SummarizeOne summarizes text with a single completion.
func (o *Orchestrator) SummarizeOne(ctx context.Context, text string) (string, error) {
	return o.complete(ctx, "summarize.single", text, SingleMaxTokens)
}

// Summarize summarizes chunks in order. A single chunk is summarized directly.
// Otherwise every chunk is summarized, the summaries are joined with a blank
// line and reduced by one more completion. Any failure aborts the run and no
// partial result is returned.
func (o *Orchestrator) Summarize(ctx context.Context, chunks []string) (string, error) {
	switch len(chunks) {
	case 0:
		return "", ErrNoChunks
	case 1:
		return o.complete(ctx, "summarize.single", chunks[0], ReductionMaxTokens)
	}

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.chunked")
	defer span.End()
	span.SetAttributes(attribute.Int("chunks", len(chunks)))

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		logging.FromContext(ctx).InfoContext(ctx, "summarizing chunk",
			slog.Int("chunk", i+1),
			slog.Int("total", len(chunks)),
			slog.Int("length", text.CountRunes(chunk)))

		summary, err := o.complete(ctx, "summarize.chunk", chunk, ChunkMaxTokens)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "chunk summary failed")
			return "", fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)
	}

	combined := strings.Join(summaries, chunkSeparator)
	final, err := o.complete(ctx, "summarize.reduce", reductionPrompt+combined, ReductionMaxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reduction failed")
		return "", fmt.Errorf("reduce chunk summaries: %w", err)
	}
	return final, nil
}

// complete wraps content in the summary prompt and calls the generator once.
func (o *Orchestrator) complete(ctx context.Context, spanName, content string, maxTokens int) (string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(
		attribute.Int("input.length", text.CountRunes(content)),
		attribute.Int("max_tokens", maxTokens),
	)

	out, err := o.gen.Generate(ctx, entity.Completion{
		Instructions: Instructions,
		Prompt:       summaryPrompt + content,
		Temperature:  Temperature,
		MaxTokens:    maxTokens,
		Model:        o.model,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("output.length", text.CountRunes(out)))
	return out, nil
}
