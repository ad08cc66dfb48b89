// Package collector turns an input path or an uploaded blob into the list of
// documents the pipeline summarizes, and writes summaries back to disk.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"medsum/internal/domain/entity"
	"medsum/internal/observability/logging"
)

// defaultReadConcurrency bounds parallel file reads in a Directory.
const defaultReadConcurrency = 8

// DocumentSource yields the documents of one summarization input.
type DocumentSource interface {
	// Documents returns the documents in the order they are concatenated.
	Documents(ctx context.Context) ([]entity.Document, error)

	// String describes the source for logs.
	String() string
}

// SingleFile is a source made of exactly one file, whatever its extension.
type SingleFile struct {
	Path string
}

// Documents implements DocumentSource.
func (s SingleFile) Documents(ctx context.Context) ([]entity.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := readDocument(s.Path)
	if err != nil {
		return nil, err
	}
	return []entity.Document{doc}, nil
}

func (s SingleFile) String() string {
	return s.Path
}

// Directory is a source made of every supported file below Path, recursively,
// ordered by full path.
type Directory struct {
	Path string

	// Concurrency bounds parallel reads. Zero uses a default.
	Concurrency int
}

// Documents implements DocumentSource.
// Files are read in parallel; the result keeps the sorted path order.
func (d Directory) Documents(ctx context.Context) ([]entity.Document, error) {
	paths, err := d.files()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logging.FromContext(ctx).WarnContext(ctx, "no text files found",
			slog.String("path", d.Path))
		return nil, nil
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = defaultReadConcurrency
	}

	docs := make([]entity.Document, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			doc, err := readDocument(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (d Directory) String() string {
	return d.Path
}

// files lists supported files below the directory, sorted by full path.
func (d Directory) files() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(d.Path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !IsSupported(entry.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.Path, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Inline is a source holding already-loaded content, e.g. an HTTP upload.
// Name selects the extractor and labels the document header.
type Inline struct {
	Name string
	Data []byte
}

// Documents implements DocumentSource.
func (s Inline) Documents(_ context.Context) ([]entity.Document, error) {
	body, err := Extract(s.Name, s.Data)
	if err != nil {
		return nil, err
	}
	return []entity.Document{{Name: s.displayName(), Body: body}}, nil
}

func (s Inline) String() string {
	return s.displayName()
}

func (s Inline) displayName() string {
	if s.Name == "" {
		return "input"
	}
	return filepath.Base(s.Name)
}

// NewSource resolves path to a SingleFile or a Directory.
// A path that does not exist yields an error wrapping entity.ErrNotFound.
func NewSource(path string) (DocumentSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("path not found: %s: %w", path, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Directory{Path: path}, nil
	}
	return SingleFile{Path: path}, nil
}

func readDocument(path string) (entity.Document, error) {
	slog.Info("reading file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.Document{}, fmt.Errorf("path not found: %s: %w", path, entity.ErrNotFound)
		}
		return entity.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	body, err := Extract(path, data)
	if err != nil {
		return entity.Document{}, err
	}
	return entity.Document{Name: filepath.Base(path), Body: body}, nil
}

// Concatenate renders each document under its header and joins them with a
// blank line. The result is trimmed; no documents yield "".
func Concatenate(docs []entity.Document) string {
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString("\n\n")
		sb.WriteString(doc.Header())
		sb.WriteString("\n\n")
		sb.WriteString(doc.Body)
	}
	return strings.TrimSpace(sb.String())
}

// ReadAndConcatenate reads every document of src and concatenates them.
func ReadAndConcatenate(ctx context.Context, src DocumentSource) (string, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return "", err
	}
	return Concatenate(docs), nil
}

// WriteOutput writes content to path, creating parent directories as needed.
func WriteOutput(content, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("content written", slog.String("path", path))
	return nil
}
