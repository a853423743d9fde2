// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package randsrc provides the pluggable randomness seam used by the
// opcode permutation and the key-table generator. Production callers get
// a cryptographically secure source; tests get a deterministic one
// derived from a fixed seed via HKDF, so that test failures reproduce.
package randsrc

import (
	"crypto/hkdf"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// Source is a stream of random bytes. Read behaves like io.Reader: it
// fills p entirely or returns an error, never a short read without one.
type Source interface {
	Read(p []byte) (n int, err error)
}

// Secure returns a Source backed by the operating system's
// cryptographically secure random number generator. This is the default
// for production serializers and rewriters.
func Secure() Source {
	return rand.Reader
}

// Deterministic returns a Source that derives an unbounded byte stream
// from seed via HKDF-SHA256. Two Deterministic sources constructed with
// the same seed produce identical output, giving callers a reproducible
// randomness seam for tests.
func Deterministic(seed []byte) Source {
	return &hkdfStream{seed: append([]byte(nil), seed...)}
}

type hkdfStream struct {
	seed    []byte
	counter uint64
	buf     []byte
}

func (s *hkdfStream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.buf) == 0 {
			var info [8]byte
			for i := range info {
				info[i] = byte(s.counter >> (8 * i))
			}
			s.counter++
			material, err := hkdf.Key(sha256.New, s.seed, nil, string(info[:]), 32)
			if err != nil {
				return n, fmt.Errorf("randsrc: hkdf expansion failed: %w", err)
			}
			s.buf = material
		}
		copied := copy(p[n:], s.buf)
		s.buf = s.buf[copied:]
		n += copied
	}
	return n, nil
}

// Intn returns a uniformly distributed integer in [0, n) read from src.
// n must be positive. It uses rejection sampling over the smallest byte
// width that covers n, so the distribution stays unbiased regardless of
// n's value.
func Intn(src Source, n int) (int, error) {
	if n <= 0 {
		panic("randsrc: Intn requires a positive bound")
	}
	if n == 1 {
		return 0, nil
	}
	width := 1
	for max := 1 << (8 * width); max < n; max = 1 << (8 * width) {
		width++
	}
	limit := uint64(1) << (8 * width)
	cutoff := limit - limit%uint64(n)
	buf := make([]byte, width)
	for {
		if _, err := io.ReadFull(AsReader(src), buf); err != nil {
			return 0, fmt.Errorf("randsrc: reading random bytes: %w", err)
		}
		var v uint64
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		if v < cutoff {
			return int(v % uint64(n)), nil
		}
	}
}

// AsReader adapts a Source to an io.Reader, for use with io helpers like
// io.ReadFull. Most Sources (including Secure and Deterministic) already
// satisfy io.Reader directly; this covers the general case.
func AsReader(src Source) io.Reader {
	if r, ok := src.(io.Reader); ok {
		return r
	}
	return readerFunc(src.Read)
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
