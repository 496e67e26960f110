// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls specification text out of a single file.
//
// Markdown files are taken verbatim. Any other file is scanned line by line
// for spec comments: lines whose first non-blank text is the delimiter
// (by convention "//~"). Two instructions, "spec:startcode" and
// "spec:endcode", bracket source lines that are copied into a fenced
// code block.
package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter marks a spec comment when no other delimiter is configured.
const DefaultDelimiter = "//~"

const markdownExt = "md"

// ParseFile returns the specification content of the file at path.
// Files with the extension "md" are returned unchanged; everything else
// goes through ParseCode. The path must have an extension.
func ParseFile(delimiter, path string) (string, error) {
	if !utf8.ValidString(path) {
		return "", &Error{Kind: KindInvalidPath, Path: path}
	}
	ext, ok := extension(path)
	if !ok {
		return "", &Error{Kind: KindMissingExtension, Path: path}
	}

	if ext == markdownExt {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &Error{Kind: KindIO, Path: path, Err: unwrapPathError(err)}
		}
		if !utf8.Valid(data) {
			return "", &Error{Kind: KindInvalidEncoding, Path: path}
		}
		return string(data), nil
	}
	return ParseCode(delimiter, path)
}

// ParseCode scans the file at path for spec comments and returns the
// collected text. See Scan for the line rules.
func ParseCode(delimiter, path string) (string, error) {
	if delimiter == "" {
		return "", &Error{Kind: KindEmptyDelimiter, Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &Error{Kind: KindIO, Path: path, Err: unwrapPathError(err)}
	}
	defer f.Close()

	out, err := Scan(delimiter, f)
	if err != nil {
		return "", withPath(err, path)
	}
	return out, nil
}

// extension returns the filename extension of path without its dot.
// Dotfiles such as ".bashrc" and names ending in "." have none.
func extension(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return "", false
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", false
	}
	return ext, true
}

// unwrapPathError drops the *fs.PathError wrapper so the path is not
// reported twice; the cause stays reachable through errors.Is.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
