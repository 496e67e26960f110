// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prose only",
			input: "//~ Hello\n//~ World\n",
			want:  "Hello\nWorld\n",
		},
		{
			name:  "plain line between prose adds separator",
			input: "//~ intro\nlet x = 1;\n//~ after\n",
			want:  "intro\n\n\nafter\n",
		},
		{
			name: "code region",
			input: "//~ before\n" +
				"//~ spec:startcode\n" +
				"let x = 1;\n" +
				"let y = 2;\n" +
				"//~ spec:endcode\n" +
				"//~ after\n",
			want: "before\n```rust\nlet x = 1;\nlet y = 2;\n```\nafter\n",
		},
		{
			name:  "no spec lines",
			input: "package main\n\nfunc main() {}\n",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain line before the first prose still separates",
			input: "package main\n//~ first\n",
			want:  "\n\nfirst\n",
		},
		{
			name:  "separator inserted once for a run of plain lines",
			input: "//~ a\nx\ny\nz\n//~ b\n",
			want:  "a\n\n\nb\n",
		},
		{
			name:  "indented spec comment",
			input: "\t  //~   indented prose   \n",
			want:  "indented prose\n",
		},
		{
			name:  "delimiter not at trimmed start is plain",
			input: "x := 1 //~ trailing\n",
			want:  "",
		},
		{
			name:  "empty payload is blank prose",
			input: "//~ one\n//~\n//~ two\n",
			want:  "one\n\ntwo\n",
		},
		{
			name:  "code lines keep indentation and trailing content",
			input: "//~ spec:startcode\n    if ok {   \n\t}\n//~ spec:endcode\n",
			want:  "```rust\n    if ok {   \n\t}\n```\n",
		},
		{
			name:  "crlf line endings",
			input: "//~ a\r\n//~ b\r\n",
			want:  "a\nb\n",
		},
		{
			name:  "prose inside a code region",
			input: "//~ spec:startcode\nx\n//~ note\ny\n//~ spec:endcode\n",
			want:  "```rust\nx\n\n\nnote\ny\n```\n",
		},
		{
			name:  "instruction with surrounding whitespace",
			input: "   //~   spec:startcode   \nx\n//~spec:endcode\n",
			want:  "```rust\nx\n```\n",
		},
		{
			name:  "plain line after code region separates prose",
			input: "//~ spec:startcode\nx\n//~ spec:endcode\nhidden\n//~ after\n",
			want:  "```rust\nx\n```\n\n\nafter\n",
		},
		{
			name:  "delimiter appearing twice keeps the rest",
			input: "//~ a //~ b\n",
			want:  "a //~ b\n",
		},
		{
			name:  "no trailing newline",
			input: "//~ last",
			want:  "last\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(DefaultDelimiter, strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_CustomDelimiter(t *testing.T) {
	input := "#@ Title\n#@ spec:startcode\nx = 1\n#@ spec:endcode\n//~ ignored\n"

	got, err := Scan("#@", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Title\n```rust\nx = 1\n```\n", got)
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
		wantErr   error
		wantLine  int
	}{
		{
			name:      "unterminated region",
			delimiter: DefaultDelimiter,
			input:     "//~ intro\n//~ spec:startcode\nlet x = 1;\n",
			wantErr:   ErrUnterminated,
			wantLine:  2,
		},
		{
			name:      "stray endcode",
			delimiter: DefaultDelimiter,
			input:     "//~ spec:endcode\n",
			wantErr:   ErrStrayEnd,
			wantLine:  1,
		},
		{
			name:      "nested startcode",
			delimiter: DefaultDelimiter,
			input:     "//~ spec:startcode\n//~ spec:startcode\n//~ spec:endcode\n",
			wantErr:   ErrNestedStart,
			wantLine:  2,
		},
		{
			name:      "unknown instruction",
			delimiter: DefaultDelimiter,
			input:     "//~ spec:include other.rs\n",
			wantErr:   ErrUnknownInstruction,
			wantLine:  1,
		},
		{
			name:      "empty instruction",
			delimiter: DefaultDelimiter,
			input:     "//~ spec:\n",
			wantErr:   ErrUnknownInstruction,
			wantLine:  1,
		},
		{
			name:      "instruction name is case sensitive",
			delimiter: DefaultDelimiter,
			input:     "//~ spec:StartCode\n",
			wantErr:   ErrUnknownInstruction,
			wantLine:  1,
		},
		{
			name:      "instruction with space after colon",
			delimiter: DefaultDelimiter,
			input:     "//~ spec: startcode\n",
			wantErr:   ErrUnknownInstruction,
			wantLine:  1,
		},
		{
			name:      "empty delimiter",
			delimiter: "",
			input:     "//~ anything\n",
			wantErr:   ErrEmptyDelimiter,
		},
		{
			name:      "invalid utf-8",
			delimiter: DefaultDelimiter,
			input:     "//~ ok\n\xff\xfe\n",
			wantErr:   ErrInvalidEncoding,
			wantLine:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.delimiter, strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Empty(t, got, "no partial result on failure")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.wantLine, e.Line)
		})
	}
}

func TestScan_UnknownInstructionMessage(t *testing.T) {
	_, err := Scan(DefaultDelimiter, strings.NewReader("//~ spec:foo\n"))
	require.Error(t, err)
	assert.Equal(t, `line 1: unimplemented instruction "spec:foo"`, err.Error())
}

func TestScan_Properties(t *testing.T) {
	input := strings.Join([]string{
		"//~ # Module",
		"use std::io;",
		"//~ The reader.",
		"//~ spec:startcode",
		"struct Reader;",
		"//~ spec:endcode",
		"fn private() {}",
		"//~ More prose.",
		"//~ spec:startcode",
		"impl Reader {}",
		"//~ spec:endcode",
		"//~ spec:startcode",
		"fn read() {}",
		"//~ spec:endcode",
	}, "\n") + "\n"

	got, err := Scan(DefaultDelimiter, strings.NewReader(input))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	t.Run("fences alternate starting with open", func(t *testing.T) {
		open := true
		count := 0
		for _, l := range lines {
			switch l {
			case fenceOpen:
				assert.True(t, open, "open fence while already open")
				open = false
				count++
			case fenceClose:
				assert.False(t, open, "close fence while closed")
				open = true
			}
		}
		assert.True(t, open)
		assert.Equal(t, 3, count)
	})

	t.Run("prose count matches prose comments", func(t *testing.T) {
		var prose []string
		for _, l := range lines {
			if l != "" && l != fenceOpen && l != fenceClose && !strings.Contains(l, "Reader") && !strings.Contains(l, "fn ") {
				prose = append(prose, l)
			}
		}
		assert.Equal(t, []string{"# Module", "The reader.", "More prose."}, prose)
	})

	t.Run("order preserved", func(t *testing.T) {
		order := []string{"# Module", "The reader.", "struct Reader;", "More prose.", "impl Reader {}", "fn read() {}"}
		pos := -1
		for _, want := range order {
			idx := strings.Index(got, want)
			require.GreaterOrEqual(t, idx, 0, want)
			assert.Greater(t, idx, pos, want)
			pos = idx
		}
	})

	t.Run("discarded lines absent", func(t *testing.T) {
		assert.NotContains(t, got, "use std::io;")
		assert.NotContains(t, got, "fn private() {}")
	})
}

func TestScan_LongLines(t *testing.T) {
	long := strings.Repeat("x", 5*1024*1024)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "discarded plain line",
			input: "//~ a\n" + long + "\n//~ b\n",
			want:  "a\n\n\nb\n",
		},
		{
			name:  "emitted inside code region",
			input: "//~ spec:startcode\n" + long + "\n//~ spec:endcode\n",
			want:  fenceOpen + "\n" + long + "\n" + fenceClose + "\n",
		},
		{
			name:  "long prose without trailing newline",
			input: "//~ " + long,
			want:  long + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(DefaultDelimiter, strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// failingReader returns data and then a non-EOF error.
type failingReader struct {
	data string
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.data == "" {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestScan_ReadError(t *testing.T) {
	cause := errors.New("disk gone")
	got, err := Scan(DefaultDelimiter, &failingReader{data: "//~ a\n//~ b\n", err: cause})
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 3, e.Line)
}
