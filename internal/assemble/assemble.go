// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble runs the extractor over an ordered list of source files
// and concatenates the results into one specification document.
package assemble

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/spec-assembler/internal/extract"
	"github.com/pdiddy/spec-assembler/pkg/types"
)

// Extractor returns the specification text of one file. The file-based
// extractor and the caching extractor both implement it.
type Extractor interface {
	// Extract reads the file at path and returns its specification text.
	Extract(path string) (string, error)
}

// FileExtractor extracts directly from disk with a fixed delimiter.
type FileExtractor struct {
	Delimiter string
}

// Extract implements Extractor using extract.ParseFile.
func (f FileExtractor) Extract(path string) (string, error) {
	return extract.ParseFile(f.Delimiter, path)
}

// Options controls a batch run.
type Options struct {
	// SkipFailures reports a failing file and moves on. When false the
	// first failure aborts the batch.
	SkipFailures bool

	// Logger receives debug records per file. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BatchResult holds the outcome counts of a batch run.
type BatchResult struct {
	Extracted int
	Empty     int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Empty + r.Failed
}

// HasFailures reports whether any file failed extraction.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AssembleFile extracts a single file and prints its status line to w.
func AssembleFile(e Extractor, path string, w io.Writer) types.FileResult {
	content, err := e.Extract(path)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
		return types.FileResult{Path: path, Status: types.ExtractionFailed, Err: err}
	}
	if content == "" {
		fmt.Fprintf(w, "empty:     %s\n", path)
		return types.FileResult{Path: path, Status: types.ExtractionEmpty}
	}
	fmt.Fprintf(w, "extracted: %s\n", path)
	return types.FileResult{Path: path, Status: types.ExtractionDone, Content: content}
}

// AssembleBatch extracts paths in order and returns the assembled document
// with a summary. Without opts.SkipFailures the first failing file stops the
// run and its error is returned with no document.
func AssembleBatch(e Extractor, paths []string, opts Options, w io.Writer) (*Document, BatchResult, error) {
	log := opts.logger()
	doc := &Document{}
	var result BatchResult

	for _, p := range paths {
		fr := AssembleFile(e, p, w)
		switch fr.Status {
		case types.ExtractionDone:
			result.Extracted++
			doc.add(p, fr.Content)
			log.Debug("extracted file", "path", p, "bytes", len(fr.Content))
		case types.ExtractionEmpty:
			result.Empty++
			doc.Sources = append(doc.Sources, p)
			log.Debug("no spec content", "path", p)
		case types.ExtractionFailed:
			result.Failed++
			log.Debug("extraction failed", "path", p, "err", fr.Err)
			if !opts.SkipFailures {
				return nil, result, fr.Err
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d empty, %d failed (total: %d)\n",
		result.Extracted, result.Empty, result.Failed, result.Total())
	return doc, result, nil
}
