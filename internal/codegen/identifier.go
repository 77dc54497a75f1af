package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

// exportedIdent turns a chart or state name into an exported identifier
// fragment: "on.idle" becomes "OnIdle", "low-power" becomes "LowPower".
// Any character that cannot appear in an identifier acts as a word break.
// Fragments that would start with a digit get an "S" prefix.
func exportedIdent(name string) (string, error) {
	var b strings.Builder
	boundary := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			boundary = true
			continue
		}
		if boundary {
			b.WriteRune(unicode.ToUpper(r))
			boundary = false
		} else {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("name %q yields no identifier", name)
	}
	ident := b.String()
	for _, r := range ident {
		if unicode.IsDigit(r) {
			ident = "S" + ident
		}
		break
	}
	return ident, nil
}
