// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/spec-assembler/internal/extract"
	"github.com/pdiddy/spec-assembler/pkg/types"
)

// fakeExtractor implements Extractor for testing. It returns canned text or
// an error per path and records the call order.
type fakeExtractor struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return "", err
	}
	return f.outputs[path], nil
}

func TestAssembleFile(t *testing.T) {
	tests := []struct {
		name       string
		extractor  *fakeExtractor
		wantStatus types.ExtractionStatus
		wantLog    string
	}{
		{
			name:       "successful extraction",
			extractor:  &fakeExtractor{outputs: map[string]string{"a.rs": "prose\n"}},
			wantStatus: types.ExtractionDone,
			wantLog:    "extracted: a.rs",
		},
		{
			name:       "no spec content",
			extractor:  &fakeExtractor{outputs: map[string]string{}},
			wantStatus: types.ExtractionEmpty,
			wantLog:    "empty:     a.rs",
		},
		{
			name:       "extraction failure",
			extractor:  &fakeExtractor{errs: map[string]error{"a.rs": errors.New("boom")}},
			wantStatus: types.ExtractionFailed,
			wantLog:    "failed:    a.rs (boom)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			fr := AssembleFile(tt.extractor, "a.rs", &log)
			assert.Equal(t, tt.wantStatus, fr.Status)
			assert.Equal(t, "a.rs", fr.Path)
			assert.Contains(t, log.String(), tt.wantLog)
		})
	}
}

func TestAssembleBatch_Order(t *testing.T) {
	fe := &fakeExtractor{outputs: map[string]string{
		"intro.md": "# Spec\n",
		"lib.rs":   "The library.\n",
		"util.rs":  "",
		"main.rs":  "Entry point.\n",
	}}
	paths := []string{"intro.md", "lib.rs", "util.rs", "main.rs"}

	var log bytes.Buffer
	doc, result, err := AssembleBatch(fe, paths, Options{}, &log)
	require.NoError(t, err)

	assert.Equal(t, paths, fe.calls)
	assert.Equal(t, BatchResult{Extracted: 3, Empty: 1}, result)
	assert.Equal(t, 4, result.Total())
	assert.False(t, result.HasFailures())
	assert.Equal(t, paths, doc.Sources)
	assert.Equal(t, "# Spec\n\nThe library.\n\nEntry point.\n", doc.Body())
	assert.Contains(t, log.String(), "Batch summary: 3 extracted, 1 empty, 0 failed (total: 4)")
}

func TestAssembleBatch_StopsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	fe := &fakeExtractor{
		outputs: map[string]string{"a.rs": "a\n", "c.rs": "c\n"},
		errs:    map[string]error{"b.rs": boom},
	}

	var log bytes.Buffer
	doc, result, err := AssembleBatch(fe, []string{"a.rs", "b.rs", "c.rs"}, Options{}, &log)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, doc)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"a.rs", "b.rs"}, fe.calls)
	assert.NotContains(t, log.String(), "Batch summary")
}

func TestAssembleBatch_SkipFailures(t *testing.T) {
	fe := &fakeExtractor{
		outputs: map[string]string{"a.rs": "a\n", "c.rs": "c\n"},
		errs:    map[string]error{"b.rs": errors.New("boom")},
	}

	var log bytes.Buffer
	doc, result, err := AssembleBatch(fe, []string{"a.rs", "b.rs", "c.rs"}, Options{SkipFailures: true}, &log)
	require.NoError(t, err)
	assert.True(t, result.HasFailures())
	assert.Equal(t, BatchResult{Extracted: 2, Failed: 1}, result)
	assert.Equal(t, "a\n\nc\n", doc.Body())
	assert.Equal(t, []string{"a.rs", "c.rs"}, doc.Sources)
	assert.Contains(t, log.String(), "failed:    b.rs (boom)")
}

func TestAssembleBatch_FileExtractor(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	intro := write("intro.md", "# Overview\n")
	lib := write("lib.rs", "//~ ## lib\n//~ spec:startcode\nfn f() {}\n//~ spec:endcode\nfn hidden() {}\n")
	bad := write("bad.rs", "//~ spec:endcode\n")

	e := FileExtractor{Delimiter: extract.DefaultDelimiter}

	var log bytes.Buffer
	doc, _, err := AssembleBatch(e, []string{intro, lib}, Options{}, &log)
	require.NoError(t, err)
	assert.Equal(t, "# Overview\n\n## lib\n```rust\nfn f() {}\n```\n", doc.Body())

	_, _, err = AssembleBatch(e, []string{intro, bad, lib}, Options{}, &log)
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrStrayEnd)
	assert.Contains(t, err.Error(), bad)
}
