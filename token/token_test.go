package token

import (
	"testing"
)

// Test looking up keywords succeeds, and a non-keyword comes back as IDENT
func TestLookup(t *testing.T) {

	for key, val := range keywords {

		// Obviously this will pass.
		if LookupIdentifier(string(key)) != val {
			t.Errorf("Lookup of %s failed", key)
		}
	}

	// An identifier that isn't a keyword should come back as IDENT,
	// not as an error - unlike the teacher, unknown identifiers are
	// valid tokens here; only unrecognized bytes are lexer errors.
	if LookupIdentifier("total") != IDENT {
		t.Errorf("expected non-keyword to be IDENT")
	}
}
