// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package protect orchestrates the bytecode emitter and the source-level
// string encryptor behind a single configuration surface. It does no
// I/O of its own; cmd/1nferno-obf owns reading and writing files.
package protect

import (
	"fmt"
	"io"
	"log"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/bytecode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/pipeline"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/strcrypt"
)

// Settings is the external configuration surface: no flag parsing or
// file-format loader lives here, so this core stays usable from any
// frontend that can populate these fields.
type Settings struct {
	EncryptStrings          bool
	EncryptImportantStrings bool
	DecryptTableLen         int
}

func (s Settings) strcryptConfig() strcrypt.Config {
	return strcrypt.Config{
		EncryptStrings:          s.EncryptStrings,
		EncryptImportantStrings: s.EncryptImportantStrings,
		DecryptTableLen:         s.DecryptTableLen,
	}
}

// Pipeline composes the two independent cores (bytecode.Serializer and
// strcrypt.Rewriter) behind one entry point. Each method remains
// independently callable, and a Pipeline holds no state between calls
// other than its logger and its randomness seam.
type Pipeline struct {
	settings   Settings
	randSource randsrc.Source
	logger     *log.Logger
}

// New builds a Pipeline reading entropy from randSource and gated by
// settings. A nil logger discards log output.
func New(settings Settings, randSource randsrc.Source, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{settings: settings, randSource: randSource, logger: logger}
}

// EmitBytecode serializes chunk into the project's obfuscated bytecode
// format, building a fresh opcode permutation for this call.
func (p *Pipeline) EmitBytecode(chunk *luacode.Chunk) ([]byte, error) {
	ser, err := bytecode.NewSerializer(p.randSource)
	if err != nil {
		return nil, fmt.Errorf("protect: build serializer: %w", err)
	}
	out, err := ser.Serialize(chunk)
	if err != nil {
		return nil, fmt.Errorf("protect: serialize chunk: %w", err)
	}
	p.logger.Printf("protect: emitted %d bytes of bytecode, %d instructions in root chunk", len(out), len(chunk.Instructions))
	return out, nil
}

// sourceCtx threads state between the named steps EncryptSource runs
// through internal/pipeline's generic step runner.
type sourceCtx struct {
	src      string
	matches  []strcrypt.Match
	rewriter *strcrypt.Rewriter
	out      string
}

// EncryptSource runs the source-level string-encryption pass over src as
// a two-step pipeline.Pipeline: "scan" finds the literals a rewrite
// might touch and logs how many, "rewrite" applies the configured
// stages to that same match list via strcrypt.Rewriter.EncryptMatches
// (so the source is only scanned once). Splitting the pass into named
// steps gives each stage its own completion log line without
// EncryptSource having to interleave logging and logic itself.
func (p *Pipeline) EncryptSource(src string) (string, error) {
	ctx := &sourceCtx{
		src:      src,
		rewriter: strcrypt.NewRewriter(p.randSource, p.settings.strcryptConfig()),
	}

	steps := pipeline.New[*sourceCtx]()
	steps.Add("scan", func(c *sourceCtx) error {
		matches, err := strcrypt.ScanLiterals(c.src)
		if err != nil {
			return err
		}
		c.matches = matches
		p.logger.Printf("protect: scanned %d string literals", len(matches))
		return nil
	})
	steps.Add("rewrite", func(c *sourceCtx) error {
		out, err := c.rewriter.EncryptMatches(c.src, c.matches)
		if err != nil {
			return err
		}
		c.out = out
		return nil
	})

	if err := steps.Execute(ctx); err != nil {
		return "", fmt.Errorf("protect: %w", err)
	}

	if ctx.out != src {
		p.logger.Printf("protect: source rewritten (%d bytes -> %d bytes)", len(src), len(ctx.out))
	} else {
		p.logger.Printf("protect: no literals rewritten (encryption stages disabled or nothing matched)")
	}
	return ctx.out, nil
}
