// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestScanQuotedLiterals(t *testing.T) {
	src := `local a = "hi"; local b = 'there'`
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 2))
	qt.Assert(t, qt.DeepEquals(matches[0].Decoded, []byte("hi")))
	qt.Assert(t, qt.DeepEquals(matches[1].Decoded, []byte("there")))
}

func TestScanLongBracketLiterals(t *testing.T) {
	src := "local s = [==[line1\nline2]==]"
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 1))
	qt.Assert(t, qt.Equals(matches[0].Kind, KindLongBracket))
	qt.Assert(t, qt.DeepEquals(matches[0].Decoded, []byte("line1\nline2")))
}

func TestScanLongBracketRequiresMatchingLevel(t *testing.T) {
	// The closer has a different number of '=' signs, so it must not
	// be treated as the closer for this opener.
	src := "local s = [==[abc]=] and more]==]"
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 1))
	qt.Assert(t, qt.DeepEquals(matches[0].Decoded, []byte("abc]=] and more")))
}

func TestScanDoesNotEscapeDecodeLongBrackets(t *testing.T) {
	src := `local s = [[a\nb]]`
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 1))
	qt.Assert(t, qt.DeepEquals(matches[0].Decoded, []byte(`a\nb`)))
}

func TestScanMarkedSentinel(t *testing.T) {
	src := `local a = "[STR_ENCRYPT]secret"`
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 1))
	qt.Assert(t, qt.IsTrue(matches[0].Marked))
	qt.Assert(t, qt.DeepEquals(matches[0].Stripped(), []byte("secret")))
}

func TestScanPropagatesEscapeErrors(t *testing.T) {
	src := `local a = "bad \256"`
	_, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNotNil(err))
	var scanErr *ScanError
	qt.Assert(t, qt.ErrorAs(err, &scanErr))
}

func TestScanNonOverlappingInSourceOrder(t *testing.T) {
	src := `a = "one" .. [[two]] .. 'three'`
	matches, err := ScanLiterals(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(matches), 3))
	for i := 1; i < len(matches); i++ {
		qt.Assert(t, qt.IsTrue(matches[i].Start >= matches[i-1].End))
	}
}
