// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Command 1nferno-obf is a demonstration CLI for the project's two
// independent cores: the source-level string encryptor and the
// bytecode emitter. It deliberately does not embed a Lua parser — that
// stays out of scope — so the bytecode emitter is only exercised when a
// side-channel JSON description of a luacode.Chunk is supplied via
// -chunk-json.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/cmdquoted"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/protect"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("1nferno-obf: ")
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	args, err := expandFlagsFrom(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("1nferno-obf", flag.ContinueOnError)
	var (
		in               = fs.String("in", "", "path to a .lua source file (required)")
		outSource        = fs.String("out-source", "", "path to write the rewritten source (default: stdout)")
		outBytecode      = fs.String("out-bytecode", "", "path to write the obfuscated bytecode stream (requires -chunk-json)")
		chunkJSON        = fs.String("chunk-json", "", "path to a JSON-encoded luacode.Chunk, for exercising the bytecode emitter")
		encryptAll       = fs.Bool("encrypt-all", false, "encrypt every string literal")
		encryptImportant = fs.Bool("encrypt-important", false, "encrypt string literals containing sensitive substrings")
		decryptTableLen  = fs.Int("decrypt-table-len", 16, "cap on generated decryption key-table length")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("1nferno-obf: -in is required")
	}

	source, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("1nferno-obf: read %s: %w", *in, err)
	}

	settings := protect.Settings{
		EncryptStrings:          *encryptAll,
		EncryptImportantStrings: *encryptImportant,
		DecryptTableLen:         *decryptTableLen,
	}
	pipeline := protect.New(settings, randsrc.Secure(), log.Default())

	rewritten, err := pipeline.EncryptSource(string(source))
	if err != nil {
		return fmt.Errorf("1nferno-obf: encrypt source: %w", err)
	}
	if err := writeOutput(*outSource, rewritten); err != nil {
		return err
	}

	if *chunkJSON != "" {
		chunk, err := loadChunkJSON(*chunkJSON)
		if err != nil {
			return err
		}
		bytecodeOut, err := pipeline.EmitBytecode(chunk)
		if err != nil {
			return fmt.Errorf("1nferno-obf: emit bytecode: %w", err)
		}
		if *outBytecode == "" {
			return fmt.Errorf("1nferno-obf: -chunk-json given without -out-bytecode")
		}
		if err := os.WriteFile(*outBytecode, bytecodeOut, 0o644); err != nil {
			return fmt.Errorf("1nferno-obf: write %s: %w", *outBytecode, err)
		}
	} else if *outBytecode != "" {
		return fmt.Errorf("1nferno-obf: -out-bytecode given without -chunk-json")
	}

	return nil
}

// expandFlagsFrom scans args for "-flags-from <path>" (or "=path"), reads
// the named response file, splits its content with shell-like quoting
// rules, and splices the result in place of the consumed token(s).
// This lets a long set of encryption flags live in a file instead of
// being retyped on every invocation.
func expandFlagsFrom(args []string) ([]string, error) {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var path string
		switch {
		case arg == "-flags-from" || arg == "--flags-from":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("1nferno-obf: -flags-from requires a path argument")
			}
			i++
			path = args[i]
		case strings.HasPrefix(arg, "-flags-from="):
			path = strings.TrimPrefix(arg, "-flags-from=")
		case strings.HasPrefix(arg, "--flags-from="):
			path = strings.TrimPrefix(arg, "--flags-from=")
		default:
			out = append(out, arg)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("1nferno-obf: read flags file %s: %w", path, err)
		}
		extra, err := cmdquoted.Split(strings.TrimSpace(string(content)))
		if err != nil {
			return nil, fmt.Errorf("1nferno-obf: parse flags file %s: %w", path, err)
		}
		out = append(out, extra...)
	}
	return out, nil
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Println(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("1nferno-obf: write %s: %w", path, err)
	}
	return nil
}
