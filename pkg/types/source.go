// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionStatus records what happened to one source file during a build.
type ExtractionStatus string

const (
	// ExtractionDone means the file produced specification text.
	ExtractionDone ExtractionStatus = "extracted"
	// ExtractionEmpty means the file was read but contained no spec text.
	ExtractionEmpty ExtractionStatus = "empty"
	// ExtractionFailed means extraction returned an error.
	ExtractionFailed ExtractionStatus = "failed"
)

// FileResult is the outcome of extracting a single source file.
type FileResult struct {
	// Path is the source file as given to the extractor.
	Path string `json:"path" yaml:"path"`

	// Status is the extraction outcome.
	Status ExtractionStatus `json:"status" yaml:"status"`

	// Content is the extracted text; empty unless Status is ExtractionDone.
	Content string `json:"-" yaml:"-"`

	// Err is the extraction error when Status is ExtractionFailed.
	Err error `json:"-" yaml:"-"`
}
