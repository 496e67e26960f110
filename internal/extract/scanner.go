// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	instructionPrefix = "spec:"

	instrStartCode = "startcode"
	instrEndCode   = "endcode"

	fenceOpen  = "```rust"
	fenceClose = "```"

	// paragraphBreak separates a run of plain lines from the prose after it.
	paragraphBreak = "\n\n"
)

// proseState tracks whether the previous non-instruction line was prose.
type proseState int

const (
	proseUnset proseState = iota
	proseYes
	proseNo
)

// scanner is the per-file state machine. It is built for one input and
// discarded afterwards.
type scanner struct {
	emittingCode  bool
	openedAt      int
	previousProse proseState
	out           strings.Builder
}

func (s *scanner) apply(l Line, lineNo int) error {
	switch l.Kind {
	case LinePlain:
		if s.emittingCode {
			s.out.WriteString(l.Text)
			s.out.WriteByte('\n')
		}
		s.previousProse = proseNo

	case LineInstruction:
		switch l.Text {
		case instrStartCode:
			if s.emittingCode {
				return &Error{Kind: KindNestedStart, Line: lineNo}
			}
			s.out.WriteString(fenceOpen + "\n")
			s.emittingCode = true
			s.openedAt = lineNo
		case instrEndCode:
			if !s.emittingCode {
				return &Error{Kind: KindStrayEnd, Line: lineNo}
			}
			s.out.WriteString(fenceClose + "\n")
			s.emittingCode = false
			// Prose right after a closing fence gets no paragraph break.
			s.previousProse = proseUnset
		default:
			return &Error{Kind: KindUnknownInstruction, Line: lineNo, Instruction: l.Text}
		}

	case LineProse:
		if s.previousProse == proseNo {
			s.out.WriteString(paragraphBreak)
		}
		s.out.WriteString(l.Text)
		s.out.WriteByte('\n')
		s.previousProse = proseYes
	}
	return nil
}

// finish checks the end-of-input state. An open code region is reported at
// the line of its startcode.
func (s *scanner) finish() (string, error) {
	if s.emittingCode {
		return "", &Error{Kind: KindUnterminated, Line: s.openedAt}
	}
	return s.out.String(), nil
}

// Scan reads r line by line and returns the specification text marked with
// delimiter. Lines end at "\n" or "\r\n"; the terminator is not part of the
// line. The returned error, if any, is an *Error without a path.
func Scan(delimiter string, r io.Reader) (string, error) {
	if delimiter == "" {
		return "", &Error{Kind: KindEmptyDelimiter}
	}

	var s scanner
	br := bufio.NewReader(r)

	lineNo := 0
	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", &Error{Kind: KindIO, Line: lineNo + 1, Err: err}
		}
		if raw == "" && err == io.EOF {
			break
		}

		lineNo++
		raw = strings.TrimSuffix(raw, "\n")
		raw = strings.TrimSuffix(raw, "\r")
		if !utf8.ValidString(raw) {
			return "", &Error{Kind: KindInvalidEncoding, Line: lineNo}
		}
		if err := s.apply(Classify(delimiter, raw), lineNo); err != nil {
			return "", err
		}
		if err == io.EOF {
			break
		}
	}

	return s.finish()
}
