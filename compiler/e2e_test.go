package compiler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// TestEndToEndFixtures drives every compiler/testdata/*.txtar fixture
// through the full lex -> parse -> typecheck -> lower -> verify
// pipeline, and asserts the lowered IR text contains every line listed
// under "want.txt".
//
// Each fixture holds a Navi program ("source.navi") and a set of
// substrings the lowered module must contain ("want.txt", one per
// line, blank lines ignored) - a single human-readable file per
// example program, rather than scattering a .navi/.ll pair per case.
func TestEndToEndFixtures(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, matches, "expected at least one txtar fixture")

	for _, path := range matches {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			require.NoError(t, err)

			var source, want []byte
			for _, f := range archive.Files {
				switch f.Name {
				case "source.navi":
					source = f.Data
				case "want.txt":
					want = f.Data
				}
			}
			require.NotNil(t, source, "fixture %s has no source.navi section", path)
			require.NotNil(t, want, "fixture %s has no want.txt section", path)

			c := New(string(source))
			out, err := c.Compile()
			require.NoError(t, err, "compiling %s", path)

			for _, line := range splitNonEmptyLines(string(want)) {
				require.Contains(t, out, line, "fixture %s: lowered IR missing expected substring", path)
			}
		})
	}
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			line := s[start:i]
			if line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
