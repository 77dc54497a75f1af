package chartfile

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mon-martins/hsmsnap"
)

// Fingerprint computes the deterministic version of a layout:
// SHA256 over the chart name and assignments, first 8 bytes in hex. The
// Version field itself is excluded, so re-fingerprinting a stamped layout
// gives the same value. Two layouts fingerprint equal exactly when they
// assign the same bits to the same states.
func Fingerprint(l *hsmsnap.Layout) string {
	canonical := struct {
		Chart       string               `json:"chart"`
		Assignments []hsmsnap.Assignment `json:"assignments"`
	}{
		Chart:       l.Chart,
		Assignments: l.Assignments,
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		// A layout is plain data; this cannot fail for one.
		return "invalid"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
