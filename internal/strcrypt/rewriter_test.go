// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// TestEncryptAllStrings checks that enabling EncryptStrings replaces
// every string literal with an inline decryptor expression.
func TestEncryptAllStrings(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("encrypt-all")), Config{EncryptStrings: true, DecryptTableLen: 16})
	out, err := r.EncryptSource(`print("hi")`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "print(")))
	qt.Assert(t, qt.IsFalse(strings.Contains(out, `"hi"`)))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "key_len=")))
}

// TestImportantStringsSelection checks that only literals containing an
// important substring get encrypted when EncryptImportantStrings alone
// is enabled.
func TestImportantStringsSelection(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("important")), Config{EncryptImportantStrings: true, DecryptTableLen: 16})
	out, err := r.EncryptSource(`local a = "safe"; local b = "function"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, `"safe"`)))
	qt.Assert(t, qt.IsFalse(strings.Contains(out, `"function"`)))
}

func TestMarkedOnlyWhenEncryptAllDisabled(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("marked")), Config{DecryptTableLen: 16})
	out, err := r.EncryptSource(`local a = "plain"; local b = "[STR_ENCRYPT]hidden"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, `"plain"`)))
	qt.Assert(t, qt.IsFalse(strings.Contains(out, "hidden")))
	qt.Assert(t, qt.IsFalse(strings.Contains(out, "[STR_ENCRYPT]")))
}

func TestNoStagesEnabledReturnsSourceUnchanged(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("noop")), Config{})
	src := `local a = "untouched"`
	out, err := r.EncryptSource(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, src))
}

func TestPreservesNonLiteralCharacters(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("preserve")), Config{EncryptStrings: true, DecryptTableLen: 16})
	src := "-- comment\nlocal x = \"a\" + 1\n"
	out, err := r.EncryptSource(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "-- comment\nlocal x = ")))
	qt.Assert(t, qt.IsTrue(strings.HasSuffix(out, " + 1\n")))
}

func TestOverlappingStagesDedupeSameRange(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("overlap")), Config{
		EncryptStrings:          true,
		EncryptImportantStrings: true,
		DecryptTableLen:         16,
	})
	out, err := r.EncryptSource(`local b = "function"`)
	qt.Assert(t, qt.IsNil(err))
	// A literal qualifying for both stages must be wrapped exactly once.
	qt.Assert(t, qt.Equals(strings.Count(out, "table.concat"), 1))
}

func TestEmptyLiteralEncryptsWithKeyLen1(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("empty-literal")), Config{EncryptStrings: true, DecryptTableLen: 16})
	out, err := r.EncryptSource(`local a = ""`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "key_len=1")))
}

func TestRewriterPropagatesScanErrors(t *testing.T) {
	r := NewRewriter(randsrc.Deterministic([]byte("bad-escape")), Config{EncryptStrings: true})
	_, err := r.EncryptSource(`local a = "bad \256"`)
	qt.Assert(t, qt.IsNotNil(err))
}

// TestEncryptMatchesMatchesEncryptSource checks that pre-scanning with
// ScanLiterals and calling EncryptMatches directly produces the same
// output as EncryptSource scanning internally, given the same seed.
func TestEncryptMatchesMatchesEncryptSource(t *testing.T) {
	src := `print("hi")`
	cfg := Config{EncryptStrings: true, DecryptTableLen: 16}

	want, err := NewRewriter(randsrc.Deterministic([]byte("same-seed")), cfg).EncryptSource(src)
	qt.Assert(t, qt.IsNil(err))

	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	got, err := NewRewriter(randsrc.Deterministic([]byte("same-seed")), cfg).EncryptMatches(src, matches)
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.Equals(got, want))
}
