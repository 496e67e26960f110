// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"
)

// LineKind is the classification of a single source line.
type LineKind int

const (
	// LinePlain is ordinary source text.
	LinePlain LineKind = iota
	// LineInstruction is a spec comment whose payload starts with "spec:".
	LineInstruction
	// LineProse is any other spec comment.
	LineProse
)

func (k LineKind) String() string {
	switch k {
	case LinePlain:
		return "plain"
	case LineInstruction:
		return "instruction"
	case LineProse:
		return "prose"
	default:
		return "unknown"
	}
}

// Line is a classified source line. Text holds the raw line for LinePlain,
// the instruction name for LineInstruction, and the trimmed payload for
// LineProse.
type Line struct {
	Kind LineKind
	Text string
}

// Classify sorts raw into plain text, a spec instruction, or spec prose.
// A line is a spec line when it starts with delimiter once leading
// whitespace is removed; a delimiter anywhere else leaves it plain.
func Classify(delimiter, raw string) Line {
	if delimiter == "" || !strings.HasPrefix(strings.TrimLeftFunc(raw, unicode.IsSpace), delimiter) {
		return Line{Kind: LinePlain, Text: raw}
	}

	_, rest, _ := strings.Cut(raw, delimiter)
	payload := strings.TrimSpace(rest)

	if strings.HasPrefix(payload, instructionPrefix) {
		_, name, _ := strings.Cut(payload, instructionPrefix)
		return Line{Kind: LineInstruction, Text: name}
	}
	return Line{Kind: LineProse, Text: payload}
}
