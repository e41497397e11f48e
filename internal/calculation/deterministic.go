package calculation

import (
	"time"
)

func defaultSeedFunc() int64 { return time.Now().UnixNano() }

// seedFunc returns a pseudo-random seed (override for deterministic tests).
var seedFunc = defaultSeedFunc

// SetSeedFunc overrides the seed provider (use only in tests). nil restores the clock-based default.
func SetSeedFunc(f func() int64) {
	if f == nil {
		f = defaultSeedFunc
	}
	seedFunc = f
}

// NextSeed returns a seed from the current provider.
func NextSeed() int64 { return seedFunc() }
