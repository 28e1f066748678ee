// Package runid names pipeline runs.
package runid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generate returns an identifier for a single pipeline run, e.g.
// "run-1756598400-a1b2c3d4". The timestamp keeps workspace directories
// sortable by start time; the random suffix separates runs started within
// the same second. When the random source is unavailable the suffix is
// dropped.
func Generate() string {
	now := time.Now().Unix()

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("run-%d", now)
	}
	return fmt.Sprintf("run-%d-%s", now, hex.EncodeToString(suffix))
}
