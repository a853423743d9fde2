// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package strcrypt implements the source-level constant-encryption pass:
// a Lua-aware string literal scanner, escape decoding, a cryptographic
// key-table generator, XOR encryption, and a source rewriter that splices
// inline decryptor expressions in place of the original literals.
package strcrypt

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel marks a literal as explicitly opted into encryption when
// global encryption is off.
const Sentinel = "[STR_ENCRYPT]"

// LiteralKind distinguishes the two Lua string literal forms the
// scanner recognizes.
type LiteralKind int

const (
	KindQuoted LiteralKind = iota
	KindLongBracket
)

// Match is one scanned Lua string literal.
type Match struct {
	Start, End int // byte offsets into the source; End is exclusive
	Kind       LiteralKind
	Raw        string // the full matched text, delimiters included
	Decoded    []byte // decoded content, sentinel (if any) still present
	Marked     bool   // Decoded begins with Sentinel
}

// Stripped returns the literal's decoded content with the leading
// Sentinel removed, if present.
func (m Match) Stripped() []byte {
	if m.Marked {
		return m.Decoded[len(Sentinel):]
	}
	return m.Decoded
}

// quotedPattern matches single- or double-quoted Lua strings: content is
// any run of non-backslash bytes or backslash-escaped pairs, matched
// lazily up to the first matching unescaped closing quote. Each
// alternative is anchored to its own quote character, which sidesteps
// Go's regexp package (RE2) not supporting backreferences while
// matching the same quoted-string semantics.
var quotedPattern = regexp.MustCompile(`(?s)'(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*"`)

// longBracketOpener matches the opening delimiter of a Lua long-bracket
// string, `[`, zero or more `=`, `[`. The matching closer (the same
// number of `=` signs) is found by a direct string search rather than by
// a backreference, for the same RE2 reason as quotedPattern.
var longBracketOpener = regexp.MustCompile(`\[(=*)\[`)

// ScanLiterals walks src left to right and returns every quoted or
// long-bracketed Lua string literal, in source order and
// non-overlapping.
func ScanLiterals(src string) ([]Match, error) {
	var matches []Match
	pos := 0
	for pos < len(src) {
		qLoc := quotedPattern.FindStringIndex(src[pos:])
		bLoc := longBracketOpener.FindStringSubmatchIndex(src[pos:])

		qStart, bStart := -1, -1
		if qLoc != nil {
			qStart = qLoc[0]
		}
		if bLoc != nil {
			bStart = bLoc[0]
		}

		switch {
		case qStart < 0 && bStart < 0:
			return matches, nil

		case bStart < 0 || (qStart >= 0 && qStart <= bStart):
			start, end := pos+qLoc[0], pos+qLoc[1]
			raw := src[start:end]
			decoded, err := UnescapeLuaString(raw[1 : len(raw)-1])
			if err != nil {
				return nil, &ScanError{LiteralStart: start, err: err}
			}
			matches = append(matches, newMatch(KindQuoted, start, end, raw, decoded))
			pos = end

		default:
			level := bLoc[3] - bLoc[2] // length of the captured `=*` run
			openEnd := pos + bLoc[1]
			closer := "]" + strings.Repeat("=", level) + "]"
			rel := strings.Index(src[openEnd:], closer)
			if rel < 0 {
				// No matching closer: not a valid long-bracket literal.
				// Skip past the opener and keep scanning.
				pos = openEnd
				continue
			}
			contentEnd := openEnd + rel
			end := contentEnd + len(closer)
			raw := src[pos+bLoc[0] : end]
			content := []byte(src[openEnd:contentEnd]) // verbatim, not escape-decoded
			matches = append(matches, newMatch(KindLongBracket, pos+bLoc[0], end, raw, content))
			pos = end
		}
	}
	return matches, nil
}

func newMatch(kind LiteralKind, start, end int, raw string, decoded []byte) Match {
	return Match{
		Start:   start,
		End:     end,
		Kind:    kind,
		Raw:     raw,
		Decoded: decoded,
		Marked:  strings.HasPrefix(string(decoded), Sentinel),
	}
}

// ScanError reports a malformed escape sequence found while scanning,
// with the byte offset of the offending literal in the source text. It
// wraps the underlying *EscapeError.
type ScanError struct {
	LiteralStart int
	err          error
}

func (e *ScanError) Error() string {
	return "strcrypt: literal at byte offset " + strconv.Itoa(e.LiteralStart) + ": " + e.err.Error()
}

func (e *ScanError) Unwrap() error { return e.err }
