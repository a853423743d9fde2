// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"1nferno-obf": func() int {
			if err := run(os.Args[1:]); err != nil {
				println(err.Error())
				return 1
			}
			return 0
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
