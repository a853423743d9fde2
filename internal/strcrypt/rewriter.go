// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"bytes"
	"sort"
	"strings"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// replacement is a splice of [Start,End) in the original source for
// Text.
type replacement struct {
	Start, End int
	Text       string
}

// Rewriter applies the source-level encryption pass to a Lua source
// string. A Rewriter owns its own randomness seam and a counter used
// only to keep decryptor labels distinct within one run; it holds no
// other state between calls to EncryptSource.
type Rewriter struct {
	src     randsrc.Source
	cfg     Config
	counter uint64
}

// NewRewriter builds a Rewriter reading key-table entropy from src and
// gated by cfg.
func NewRewriter(src randsrc.Source, cfg Config) *Rewriter {
	return &Rewriter{src: src, cfg: cfg}
}

func (r *Rewriter) nextLabel(plaintext []byte) string {
	label := NextLabel(plaintext, r.counter)
	r.counter++
	return label
}

// EncryptSource runs the three encryption stages over src and returns
// the transformed source: selected literals replaced in place by inline
// decryptor expressions, everything else preserved verbatim.
// EncryptSource fails only when the scanner hits a malformed escape
// sequence; every other path produces output, even if no stage is
// enabled (in which case the source is returned unchanged).
func (r *Rewriter) EncryptSource(src string) (string, error) {
	matches, err := ScanLiterals(src)
	if err != nil {
		return "", err
	}
	return r.EncryptMatches(src, matches)
}

// EncryptMatches runs the three encryption stages over a literal list
// already produced by ScanLiterals, against the same src they were
// scanned from. Callers that need the match count before rewriting
// (e.g. to log it) can call ScanLiterals once and pass the result here
// instead of paying for a second scan inside EncryptSource.
func (r *Rewriter) EncryptMatches(src string, matches []Match) (string, error) {
	var records []replacement
	switch {
	case r.cfg.EncryptStrings:
		records = append(records, r.encryptAll(matches)...)
	default:
		records = append(records, r.encryptMarked(matches)...)
	}
	if r.cfg.EncryptImportantStrings {
		records = append(records, r.encryptImportant(matches)...)
	}

	records = dedupeByRange(records)
	return applyReplacements(src, records)
}

// encryptAll implements the "EncryptAllStrings" stage: one shared key
// table sized to the longest matched literal (capped by the configured
// ceiling), used to encrypt every literal. A literal's Sentinel prefix,
// if any, is stripped before it is encrypted, the same as encryptMarked
// does — the sentinel only ever opts a literal into encryption, it is
// never itself part of the protected plaintext.
func (r *Rewriter) encryptAll(matches []Match) []replacement {
	if len(matches) == 0 {
		return nil
	}
	longest := 0
	for _, m := range matches {
		if len(m.Stripped()) > longest {
			longest = len(m.Stripped())
		}
	}
	key, err := NewKeyTable(r.src, longest, r.cfg.DecryptTableLen)
	if err != nil {
		// The only failure mode is the entropy source erroring; skip
		// this stage rather than fail the whole rewrite.
		return nil
	}

	records := make([]replacement, 0, len(matches))
	for _, m := range matches {
		content := m.Stripped()
		text := BuildDecryptor(r.nextLabel(content), content, key)
		records = append(records, replacement{m.Start, m.End, text})
	}
	return records
}

// encryptMarked implements the "MarkedOnly" stage, which only runs when
// EncryptAllStrings is false: a fresh decryptor, sized to that match's
// own length, for every literal whose decoded content begins with
// Sentinel.
func (r *Rewriter) encryptMarked(matches []Match) []replacement {
	var records []replacement
	for _, m := range matches {
		if !m.Marked {
			continue
		}
		content := m.Stripped()
		key, err := NewKeyTable(r.src, len(content), r.cfg.DecryptTableLen)
		if err != nil {
			continue
		}
		text := BuildDecryptor(r.nextLabel(content), content, key)
		records = append(records, replacement{m.Start, m.End, text})
	}
	return records
}

// encryptImportant implements the "ImportantStrings" stage: independent
// of the other two, a fresh decryptor for every literal whose decoded
// content contains (case-insensitively) one of http/function/metatable/local.
// As with encryptAll, a Sentinel prefix is stripped before the literal
// is encrypted.
func (r *Rewriter) encryptImportant(matches []Match) []replacement {
	var records []replacement
	for _, m := range matches {
		if !containsImportantSubstring(m.Decoded) {
			continue
		}
		content := m.Stripped()
		key, err := NewKeyTable(r.src, len(content), r.cfg.DecryptTableLen)
		if err != nil {
			continue
		}
		text := BuildDecryptor(r.nextLabel(content), content, key)
		records = append(records, replacement{m.Start, m.End, text})
	}
	return records
}

func containsImportantSubstring(decoded []byte) bool {
	lower := strings.ToLower(string(decoded))
	for _, sub := range importantSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// dedupeByRange drops later records that cover an identical [Start,End)
// range already scheduled by an earlier stage — this happens when
// EncryptStrings and EncryptImportantStrings are both enabled and a
// literal qualifies for both, and would otherwise double-wrap the same
// text. The earlier stage (EncryptAllStrings/MarkedOnly) wins, since it
// already accounts for every literal.
func dedupeByRange(records []replacement) []replacement {
	type span struct{ start, end int }
	seen := make(map[span]bool, len(records))
	out := make([]replacement, 0, len(records))
	for _, rec := range records {
		key := span{rec.Start, rec.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// applyReplacements sorts records by descending start and splices them
// into src right-to-left: applying in descending-start order means
// every not-yet-applied range keeps its original meaning, since nothing
// before it in the source has moved. A record whose range no longer
// lies within the current bounds is skipped defensively, which can only
// happen here if two records legitimately overlap without sharing
// identical bounds.
func applyReplacements(src string, records []replacement) (string, error) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start > records[j].Start
	})

	out := []byte(src)
	for _, rec := range records {
		if rec.Start < 0 || rec.End > len(out) || rec.Start > rec.End {
			continue
		}
		var buf bytes.Buffer
		buf.Grow(len(out) - (rec.End - rec.Start) + len(rec.Text))
		buf.Write(out[:rec.Start])
		buf.WriteString(rec.Text)
		buf.Write(out[rec.End:])
		out = buf.Bytes()
	}
	return string(out), nil
}
