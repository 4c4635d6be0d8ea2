package archive

import (
	"sync"

	"github.com/SummonTheCat/smn-archive/internal/config"
)

var (
	cfgOnce sync.Once
	cfg     *config.Config
)

// activeConfig lazily loads the process-wide Config the first time any
// archive operation needs one of its tunables, matching the existence
// caches' build-on-first-use pattern rather than forcing every caller
// through an explicit Configure() step. cmd/smnarchive loads its own
// *config.Config for CLI flag defaults; this is the copy the archive
// package itself consults for ScratchDir, LockTimeoutMS, and
// BloomFalsePositiveRate.
func activeConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.Load()
	})
	return cfg
}
